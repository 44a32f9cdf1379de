// Package compliance реализует HTTP-обработчик сводного статуса соответствия.
package compliance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	compliancesvc "github.com/glebmarkov/nis2-dashboard/internal/services/compliance"
)

// Service описывает интерфейс бизнес-логики сводного статуса.
type Service interface {
	Stats(ctx context.Context, userUID string) (*compliancesvc.Stats, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить статус соответствия
// @Description Возвращает балл и статус по последней оценке соответствия.
// @Tags Stats
// @Produce  json
// @Success 200 {object} response.Response "Статус соответствия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stats/compliance [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.compliance"

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

	stats, err := h.service.Stats(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get compliance statistics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get compliance statistics"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(stats))
}
