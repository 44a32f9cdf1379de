// Package ask реализует HTTP-обработчик произвольных вопросов к AI-советнику.
// Доступ ограничен платными планами на уровне middleware.
package ask

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
)

// Request — входные данные: вопрос и необязательный контекст
type Request struct {
	Question string `json:"question" validate:"required"`
	Context  string `json:"context"`
}

// Advisor описывает интерфейс AI-советника для произвольных вопросов.
type Advisor interface {
	Ask(ctx context.Context, question, questionContext string) (string, error)
}

type Handler struct {
	log      *slog.Logger
	advisor  Advisor
	validate *validator.Validate
}

func New(log *slog.Logger, advisor Advisor) *Handler {
	return &Handler{
		log:      log,
		advisor:  advisor,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Задать вопрос AI-советнику
// @Description Отвечает на произвольный вопрос о кибербезопасности и NIS2.
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body Request true "Вопрос и контекст"
// @Success 200 {object} response.Response "Ответ советника"
// @Failure 400 {object} response.ErrorResponse "Вопрос не передан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недоступно на плане base"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ai/ask [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.ask"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("question is required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("question is required"))
		return
	}

	answer, err := h.advisor.Ask(r.Context(), req.Question, req.Context)
	if err != nil {
		log.Error("failed to get answer", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get AI response"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"response": answer,
	}))
}
