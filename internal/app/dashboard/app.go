// Package dashboard собирает и запускает HTTP-приложение панели безопасности.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/glebmarkov/nis2-dashboard/internal/advisor"
	"github.com/glebmarkov/nis2-dashboard/internal/cache"
	"github.com/glebmarkov/nis2-dashboard/internal/config"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/jwt"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/password"
	"github.com/glebmarkov/nis2-dashboard/internal/migrations"
	"github.com/glebmarkov/nis2-dashboard/internal/renderer"
	"github.com/glebmarkov/nis2-dashboard/internal/services/auth"
	compliancesvc "github.com/glebmarkov/nis2-dashboard/internal/services/compliance"
	reportsvc "github.com/glebmarkov/nis2-dashboard/internal/services/report"
	scansvc "github.com/glebmarkov/nis2-dashboard/internal/services/scan"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
	"github.com/glebmarkov/nis2-dashboard/internal/storage/memstore"
	"github.com/glebmarkov/nis2-dashboard/internal/storage/repository"
)

// demoPassword — пароль демо-пользователя для локальной разработки.
const demoPassword = "password123"

type App struct {
	server  *http.Server
	logger  *slog.Logger
	closeDB func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		gateway storage.Gateway
		closeDB = func() error { return nil }
	)

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := repository.New(cfg.Storage.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err = migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
			return nil, err
		}
		gateway = db
		closeDB = db.DB.Close
	case "memory":
		mem := memstore.New()
		if cfg.Storage.SeedDemo {
			hash, err := password.GetHash(demoPassword)
			if err != nil {
				return nil, err
			}
			demo, err := mem.SeedDemoUser(hash)
			if err != nil {
				return nil, err
			}
			logger.Info("seeded demo user", slog.String("username", demo.Username))
		}
		gateway = mem
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	adv, err := advisor.New(cfg.Advisor)
	if err != nil {
		return nil, err
	}

	fileRenderer, err := renderer.NewFileRenderer(cfg.Renderer.OutputDir)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := auth.New(gateway, jwtMaker, cacheRedis)
	scanService := scansvc.New(gateway, cacheRedis, adv, logger)
	complianceService := compliancesvc.New(gateway, adv, logger)
	reportService := reportsvc.New(gateway, fileRenderer, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:       authService,
		Scan:       scanService,
		Compliance: complianceService,
		Report:     reportService,
		Advisor:    adv,
		ReportsDir: cfg.Renderer.OutputDir,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		closeDB: closeDB,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.closeDB(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
