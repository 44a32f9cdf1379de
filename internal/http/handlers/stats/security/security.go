// Package security реализует HTTP-обработчик сводки по последнему сканированию.
package security

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/services/scan"
)

// Service описывает интерфейс бизнес-логики сводки по безопасности.
type Service interface {
	SecurityStats(ctx context.Context, userUID string) (*scan.SecurityStats, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить сводку по безопасности
// @Description Возвращает балл и счётчики проблем по последнему сканированию.
// @Tags Stats
// @Produce  json
// @Success 200 {object} response.Response "Сводка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stats/security [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.security"

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

	stats, err := h.service.SecurityStats(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get security statistics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get security statistics"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(stats))
}
