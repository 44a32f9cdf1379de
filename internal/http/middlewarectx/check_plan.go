package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// UserServiceInterface определяет интерфейс для получения пользователя.
type UserServiceInterface interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// RequirePaidPlanMiddleware создает middleware, пропускающий только пользователей
// с планом, включающим AI-возможности. Остальным возвращает 403.
func RequirePaidPlanMiddleware(log *slog.Logger, userService UserServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}

			user, err := userService.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !user.Plan.AllowsAI() {
				log.Info("plan does not include AI features", slog.String("plan", string(user.Plan)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("AI assistant is available only to Premium and Pro plans"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
