// Package read реализует HTTP-обработчик чтения одного сканирования.
//
// Handler извлекает id из пути, проверяет владение и возвращает сканирование.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Service описывает интерфейс бизнес-логики чтения сканирования.
type Service interface {
	Get(ctx context.Context, userUID string, id int) (*models.Scan, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить сканирование по id
// @Description Возвращает сканирование, если оно принадлежит текущему пользователю.
// @Tags Scans
// @Produce  json
// @Param id path int true "ID сканирования"
// @Success 200 {object} response.Response "Сканирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое сканирование"
// @Failure 404 {object} response.ErrorResponse "Сканирование не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /scans/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.read"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid scan id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid scan id"))
		return
	}

	scan, err := h.service.Get(r.Context(), userUID, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("scan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("scan not found"))
		case errors.Is(err, services.ErrNotOwner):
			log.Error("scan belongs to another user", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you don't have permission to access this scan"))
		default:
			log.Error("failed to get scan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get scan"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(scan))
}
