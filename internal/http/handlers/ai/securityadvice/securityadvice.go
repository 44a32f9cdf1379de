// Package securityadvice реализует HTTP-обработчик AI-советов по результатам
// сканирования. Доступ ограничен платными планами на уровне middleware.
package securityadvice

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

// Request — входные данные: результаты сканирования для анализа
type Request struct {
	ScanResults *models.ScanResults `json:"scanResults"`
}

// Advisor описывает интерфейс AI-советника по безопасности.
type Advisor interface {
	SecurityAdvice(ctx context.Context, results models.ScanResults) (string, error)
}

type Handler struct {
	log     *slog.Logger
	advisor Advisor
}

func New(log *slog.Logger, advisor Advisor) *Handler {
	return &Handler{log: log, advisor: advisor}
}

// ServeHTTP godoc
// @Summary Получить AI-советы по безопасности
// @Description Анализирует результаты сканирования и возвращает рекомендации.
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body Request true "Результаты сканирования"
// @Success 200 {object} response.Response "Рекомендации"
// @Failure 400 {object} response.ErrorResponse "Результаты не переданы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недоступно на плане base"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ai/security-advice [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.securityadvice"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ScanResults == nil {
		log.Error("scan results are required", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("scan results are required"))
		return
	}

	advice, err := h.advisor.SecurityAdvice(r.Context(), *req.ScanResults)
	if err != nil {
		log.Error("failed to get security advice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get AI security advice"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"advice": advice,
	}))
}
