// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Handler отзывает предъявленный JWT-токен: токен попадает в денлист
// и перестаёт приниматься до истечения собственного срока действия.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выйти из системы
// @Description Отзывает текущий JWT-токен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Выход выполнен"
// @Failure 500 {object} response.ErrorResponse "Не удалось завершить сессию"
// @Router /auth/logout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.service.Logout(r.Context(), token); err != nil {
		log.Error("failed to revoke token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to logout"))
		return
	}

	log.Info("user logged out")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
