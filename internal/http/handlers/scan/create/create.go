// Package create реализует HTTP-обработчик запуска сканирования сайта.
//
// Handler принимает URL, проверяет месячную квоту плана через бизнес-логику
// и возвращает сохранённое сканирование. Для Premium/Pro в результат
// включается AI-совет.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Request — входные данные для запуска сканирования
type Request struct {
	URL string `json:"url" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сканирования.
type Service interface {
	Scan(ctx context.Context, user *models.User, url string) (*models.Scan, error)
}

// UserProvider возвращает пользователя по UID для проверки плана.
type UserProvider interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	users    UserProvider
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить сканирование сайта
// @Description Проверяет месячную квоту плана и сохраняет результат сканирования.
// @Tags Scans
// @Accept  json
// @Produce  json
// @Param request body Request true "URL сайта"
// @Success 200 {object} response.Response "Результат сканирования"
// @Failure 400 {object} response.ErrorResponse "URL не указан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Квота исчерпана"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /scans [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.create"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("url is required"))
		return
	}
	log.Info("request body decoded", slog.String("url", req.URL))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("url is required"))
		return
	}

	user, err := h.users.GetUser(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to scan website"))
		return
	}

	scan, err := h.service.Scan(r.Context(), user, req.URL)
	if err != nil {
		var quotaErr *services.QuotaError
		if errors.As(err, &quotaErr) {
			log.Info("scan quota exceeded", slog.String("plan", string(user.Plan)))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(quotaErr.Error()))
			return
		}
		log.Error("failed to scan website", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to scan website"))
		return
	}

	log.Info("scan completed", slog.Int("id", scan.ID), slog.Int("score", scan.Score))
	render.JSON(w, r, response.StatusOKWithData(scan))
}
