// Package generate реализует HTTP-обработчик генерации отчётов.
//
// Handler валидирует тип отчёта, собирает параметры с флагами секций
// (отсутствующий флаг означает «включить») и вызывает бизнес-логику.
package generate

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
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/services/report"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Service описывает интерфейс бизнес-логики генерации отчётов.
type Service interface {
	Generate(ctx context.Context, user *models.User, req report.Request) (*report.Generated, error)
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
// @Summary Сгенерировать отчёт
// @Description Создает отчёт security, nis2 или comprehensive по данным пользователя.
// @Tags Reports
// @Accept  json
// @Produce  json
// @Param request body models.DummyReportRequest true "Параметры отчёта"
// @Success 200 {object} response.Response "Сохранённый отчёт со ссылкой на файл"
// @Failure 400 {object} response.ErrorResponse "Некорректный тип отчёта или неполные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недоступно на текущем плане или чужие данные"
// @Failure 404 {object} response.ErrorResponse "Исходные данные не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/generate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.generate"

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

	var req models.DummyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("report_type", req.ReportType))

	reportType, ok := models.ParseReportType(req.ReportType)
	if !ok {
		log.Error("invalid report type", slog.String("report_type", req.ReportType))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("valid report type is required"))
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
		render.JSON(w, r, response.Error("failed to generate report"))
		return
	}

	generated, err := h.service.Generate(r.Context(), user, report.Request{
		ScanID:       req.ScanID,
		ComplianceID: req.ComplianceID,
		ReportType:   reportType,
		Options:      req.Options(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanRequired):
			log.Info("comprehensive report not allowed on plan", slog.String("plan", string(user.Plan)))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("comprehensive reports are available only to Premium and Pro plans"))
		case errors.Is(err, report.ErrScanRequired), errors.Is(err, report.ErrIncompleteInputs):
			log.Error("incomplete report inputs", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, services.ErrNotOwner):
			log.Error("report inputs belong to another user")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you don't have permission to access this resource"))
		case errors.Is(err, storage.ErrNotFound):
			log.Error("report inputs not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("report source data not found"))
		default:
			log.Error("failed to generate report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to generate report"))
		}
		return
	}

	log.Info("report generated", slog.Int("id", generated.ID))
	render.JSON(w, r, response.StatusOKWithData(generated))
}
