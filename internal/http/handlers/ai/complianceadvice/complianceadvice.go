// Package complianceadvice реализует HTTP-обработчик AI-рекомендаций
// по ответам анкеты соответствия. Доступ ограничен платными планами
// на уровне middleware.
package complianceadvice

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// Request — входные данные: ответы анкеты соответствия
type Request struct {
	Answers []models.Answer `json:"answers"`
}

// Advisor описывает интерфейс AI-советника по соответствию.
type Advisor interface {
	ComplianceAdvice(ctx context.Context, answers []models.Answer) (string, error)
}

type Handler struct {
	log     *slog.Logger
	advisor Advisor
}

func New(log *slog.Logger, advisor Advisor) *Handler {
	return &Handler{log: log, advisor: advisor}
}

// ServeHTTP godoc
// @Summary Получить AI-рекомендации по соответствию
// @Description Анализирует ответы анкеты и возвращает рекомендации по NIS2.
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body Request true "Ответы анкеты"
// @Success 200 {object} response.Response "Рекомендации"
// @Failure 400 {object} response.ErrorResponse "Ответы не переданы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недоступно на плане base"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ai/compliance-advice [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.complianceadvice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answers == nil {
		log.Error("compliance answers are required", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("compliance assessment answers are required"))
		return
	}

	advice, err := h.advisor.ComplianceAdvice(r.Context(), req.Answers)
	if err != nil {
		log.Error("failed to get compliance advice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get AI compliance advice"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"advice": advice,
	}))
}
