// Package dashboard предоставляет маршруты для основного приложения.
package dashboard

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/glebmarkov/nis2-dashboard/internal/advisor"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/ai/ask"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/ai/complianceadvice"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/ai/securityadvice"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/auth/login"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/auth/logout"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/auth/register"
	compliancelatest "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/compliance/latest"
	compliancesubmit "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/compliance/submit"
	"github.com/glebmarkov/nis2-dashboard/internal/http/handlers/health"
	reportgenerate "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/report/generate"
	reportlist "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/report/list"
	scancreate "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/scan/create"
	scanlist "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/scan/list"
	scanread "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/scan/read"
	statscompliance "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/stats/compliance"
	statssecurity "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/stats/security"
	userget "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/user/get"
	userplan "github.com/glebmarkov/nis2-dashboard/internal/http/handlers/user/plan"
	"github.com/glebmarkov/nis2-dashboard/internal/http/middlewarectx"
	"github.com/glebmarkov/nis2-dashboard/internal/services/auth"
	compliancesvc "github.com/glebmarkov/nis2-dashboard/internal/services/compliance"
	reportsvc "github.com/glebmarkov/nis2-dashboard/internal/services/report"
	scansvc "github.com/glebmarkov/nis2-dashboard/internal/services/scan"
)

// recentScansLimit — сколько сканирований возвращает /scans/recent.
const recentScansLimit = 3

// Services собирает сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth       *auth.Service
	Scan       *scansvc.Service
	Compliance *compliancesvc.Service
	Report     *reportsvc.Service
	Advisor    advisor.Advisor
	ReportsDir string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, s.Auth).ServeHTTP)

			r.Get("/user", userget.New(logger, s.Auth).ServeHTTP)
			r.Post("/user/plan", userplan.New(logger, s.Auth).ServeHTTP)

			r.Post("/scans", scancreate.New(logger, s.Scan, s.Auth).ServeHTTP)
			r.Get("/scans", scanlist.New(logger, s.Scan, 0).ServeHTTP)
			r.Get("/scans/recent", scanlist.New(logger, s.Scan, recentScansLimit).ServeHTTP)
			r.Get("/scans/{id}", scanread.New(logger, s.Scan).ServeHTTP)

			r.Post("/compliance", compliancesubmit.New(logger, s.Compliance, s.Auth).ServeHTTP)
			r.Get("/compliance/latest", compliancelatest.New(logger, s.Compliance).ServeHTTP)

			r.Post("/reports/generate", reportgenerate.New(logger, s.Report, s.Auth).ServeHTTP)
			r.Get("/reports", reportlist.New(logger, s.Report).ServeHTTP)

			r.Get("/stats/security", statssecurity.New(logger, s.Scan).ServeHTTP)
			r.Get("/stats/compliance", statscompliance.New(logger, s.Compliance).ServeHTTP)

			// AI-советник доступен только платным планам
			r.Route("/ai", func(r chi.Router) {
				r.Use(middlewarectx.RequirePaidPlanMiddleware(logger, s.Auth))
				r.Post("/security-advice", securityadvice.New(logger, s.Advisor).ServeHTTP)
				r.Post("/compliance-advice", complianceadvice.New(logger, s.Advisor).ServeHTTP)
				r.Post("/ask", ask.New(logger, s.Advisor).ServeHTTP)
			})
		})
	})

	// Сгенерированные файлы отчётов
	fileServer := http.FileServer(http.Dir(filepath.Clean(s.ReportsDir)))
	r.Handle("/reports/files/*", http.StripPrefix("/reports/files/", fileServer))

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
