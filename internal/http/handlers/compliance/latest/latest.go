// Package latest реализует HTTP-обработчик чтения последней оценки соответствия.
package latest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/services/compliance"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Service описывает интерфейс бизнес-логики чтения последней оценки.
type Service interface {
	Latest(ctx context.Context, userUID string) (*compliance.Result, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить последнюю оценку соответствия
// @Description Возвращает последнюю оценку пользователя со свежими рекомендациями.
// @Tags Compliance
// @Produce  json
// @Success 200 {object} response.Response "Оценка соответствия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Оценок ещё нет"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /compliance/latest [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.compliance.latest"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	}

	result, err := h.service.Latest(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("no compliance assessment found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no compliance assessment found"))
			return
		}
		log.Error("failed to get latest compliance assessment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get latest compliance assessment"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
