// Package submit реализует HTTP-обработчик отправки анкеты соответствия NIS2.
//
// Handler принимает список ответов, считает балл через бизнес-логику
// и возвращает сохранённую оценку с производными рекомендациями.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/http/response"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/sl"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services/compliance"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Request — входные данные: ответы анкеты
type Request struct {
	Answers []models.Answer `json:"answers"`
}

// Service описывает интерфейс бизнес-логики оценки соответствия.
type Service interface {
	Submit(ctx context.Context, user *models.User, answers []models.Answer) (*compliance.Result, error)
}

// UserProvider возвращает пользователя по UID для проверки плана.
type UserProvider interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	users   UserProvider
}

func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{log: log, service: service, users: users}
}

// ServeHTTP godoc
// @Summary Отправить анкету соответствия
// @Description Сохраняет ответы, считает балл и возвращает оценку с рекомендациями.
// @Tags Compliance
// @Accept  json
// @Produce  json
// @Param request body Request true "Ответы анкеты"
// @Success 200 {object} response.Response "Оценка соответствия"
// @Failure 400 {object} response.ErrorResponse "Ответы не переданы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /compliance [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.compliance.submit"

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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Answers) == 0 {
		log.Error("valid answers array is required", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("valid answers array is required"))
		return
	}
	log.Info("request body decoded", slog.Int("answers", len(req.Answers)))

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
		render.JSON(w, r, response.Error("failed to process compliance assessment"))
		return
	}

	result, err := h.service.Submit(r.Context(), user, req.Answers)
	if err != nil {
		log.Error("failed to process compliance assessment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process compliance assessment"))
		return
	}

	log.Info("compliance assessment saved", slog.Int("id", result.ID), slog.Int("score", result.Score))
	render.JSON(w, r, response.StatusOKWithData(result))
}
