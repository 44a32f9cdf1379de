// Package list реализует HTTP-обработчик списка сканирований пользователя.
//
// Один и тот же Handler обслуживает и полный список, и «последние N»:
// лимит задаётся при создании, нулевое значение означает без ограничения.
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

// Service описывает интерфейс бизнес-логики списка сканирований.
type Service interface {
	List(ctx context.Context, userUID string, limit int) ([]*models.Scan, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	limit   int
}

func New(log *slog.Logger, service Service, limit int) *Handler {
	return &Handler{log: log, service: service, limit: limit}
}

// ServeHTTP godoc
// @Summary Получить сканирования пользователя
// @Description Возвращает сканирования текущего пользователя, новые первыми.
// @Tags Scans
// @Produce  json
// @Success 200 {object} response.Response "Список сканирований"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /scans [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.list"

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

	scans, err := h.service.List(r.Context(), userUID, h.limit)
	if err != nil {
		log.Error("failed to list scans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get scans"))
		return
	}

	log.Info("scans listed", slog.Int("count", len(scans)))
	render.JSON(w, r, response.StatusOKWithData(scans))
}
