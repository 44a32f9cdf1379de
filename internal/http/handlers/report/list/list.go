// Package list реализует HTTP-обработчик списка отчётов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики списка отчётов.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Report, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить отчёты пользователя
// @Description Возвращает отчёты текущего пользователя, новые первыми.
// @Tags Reports
// @Produce  json
// @Success 200 {object} response.Response "Список отчётов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.list"

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

	reports, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list reports", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get reports"))
		return
	}

	log.Info("reports listed", slog.Int("count", len(reports)))
	render.JSON(w, r, response.StatusOKWithData(reports))
}
