package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userUID string, id int) (*models.Scan, error) {
	args := m.Called(ctx, userUID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Scan), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		idParam        string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение сканирования",
			idParam: "123",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", 123).Return(&models.Scan{
					ID:      123,
					UserUID: "uid-1",
					URL:     "https://example.com",
					Score:   85,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"url":"https://example.com"`,
		},
		{
			name:           "некорректный id в URL",
			idParam:        "abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid scan id"`,
		},
		{
			name:           "нет пользователя в контексте",
			idParam:        "123",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"message":"not authenticated"`,
		},
		{
			name:    "сканирование не найдено",
			idParam: "777",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", 777).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"message":"scan not found"`,
		},
		{
			name:    "чужое сканирование",
			idParam: "777",
			userUID: "uid-2",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-2", 777).Return(nil, services.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"you don't have permission to access this scan"`,
		},
		{
			name:    "ошибка сервиса",
			idParam: "777",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "uid-1", 777).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"failed to get scan"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/scans/"+tt.idParam, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.idParam)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
