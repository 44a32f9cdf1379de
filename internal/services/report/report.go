// Package report реализует генерацию отчётов: проверку тарифных ограничений,
// сбор исходных данных по владельцу и сохранение ссылки на файл.
package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/renderer"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/services/scan"
)

var (
	// ErrScanRequired возвращается, когда для отчёта не указан id сканирования.
	ErrScanRequired = errors.New("scan id is required for security reports")
	// ErrIncompleteInputs возвращается, когда для комплексного отчёта
	// не хватает сканирования или оценки соответствия.
	ErrIncompleteInputs = errors.New("both scan and compliance assessment are required for comprehensive reports")
)

// Repository определяет методы для работы с отчётами и их исходными данными.
type Repository interface {
	// CreateReport сохраняет ссылку на сгенерированный отчёт.
	CreateReport(ctx context.Context, entry models.Report) (*models.Report, error)
	// ListUserReports возвращает отчёты пользователя, новые первыми.
	ListUserReports(ctx context.Context, userUID string) ([]*models.Report, error)
	// GetScan возвращает сканирование по id.
	GetScan(ctx context.Context, id int) (*models.Scan, error)
	// UpdateScanReport записывает ссылку на отчёт в сканирование.
	UpdateScanReport(ctx context.Context, id int, reportURL string) error
	// GetCompliance возвращает оценку соответствия по id.
	GetCompliance(ctx context.Context, id int) (*models.Compliance, error)
	// GetLatestCompliance возвращает последнюю оценку пользователя.
	GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error)
}

// Request — параметры генерации отчёта после валидации на уровне HTTP.
type Request struct {
	ScanID       *int
	ComplianceID *int
	ReportType   models.ReportType
	Options      models.ReportOptions
}

// Generated — сохранённый отчёт вместе со ссылкой на файл.
type Generated struct {
	models.Report
	ReportURL string `json:"reportUrl"`
}

// Service реализует бизнес-логику генерации отчётов.
type Service struct {
	repo     Repository
	renderer renderer.Renderer
	cache    scan.Cache
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, rnd renderer.Renderer, cache scan.Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, renderer: rnd, cache: cache, log: log}
}

// Generate собирает исходные данные отчёта, рендерит файл и сохраняет ссылку.
// Комплексные отчёты доступны только платным планам; чужие сканирования и
// оценки недоступны независимо от типа отчёта.
func (s *Service) Generate(ctx context.Context, user *models.User, req Request) (*Generated, error) {
	if req.ReportType == models.ReportComprehensive && !user.Plan.AllowsComprehensiveReports() {
		return nil, services.ErrPlanRequired
	}

	var (
		filePath   string
		scanEntry  *models.Scan
		compliance *models.Compliance
		err        error
	)

	if req.ReportType == models.ReportSecurity || req.ReportType == models.ReportComprehensive {
		if req.ScanID == nil {
			return nil, ErrScanRequired
		}
		scanEntry, err = s.repo.GetScan(ctx, *req.ScanID)
		if err != nil {
			return nil, err
		}
		if scanEntry.UserUID != user.UID {
			return nil, services.ErrNotOwner
		}
		if req.ReportType == models.ReportSecurity {
			filePath, err = s.renderer.RenderSecurity(ctx, scanEntry, nil, req.Options)
			if err != nil {
				return nil, err
			}
		}
	}

	if req.ReportType == models.ReportNIS2 || req.ReportType == models.ReportComprehensive {
		if req.ComplianceID != nil {
			compliance, err = s.repo.GetCompliance(ctx, *req.ComplianceID)
		} else {
			compliance, err = s.repo.GetLatestCompliance(ctx, user.UID)
		}
		if err != nil {
			return nil, err
		}
		if compliance.UserUID != user.UID {
			return nil, services.ErrNotOwner
		}
		if req.ReportType == models.ReportNIS2 {
			filePath, err = s.renderer.RenderCompliance(ctx, compliance, req.Options)
			if err != nil {
				return nil, err
			}
		}
	}

	if req.ReportType == models.ReportComprehensive {
		if scanEntry == nil || compliance == nil {
			return nil, ErrIncompleteInputs
		}
		filePath, err = s.renderer.RenderSecurity(ctx, scanEntry, compliance, req.Options)
		if err != nil {
			return nil, err
		}
	}

	entry := models.Report{
		UserUID:    user.UID,
		ReportType: req.ReportType,
		FilePath:   filePath,
	}
	if scanEntry != nil {
		entry.ScanID = &scanEntry.ID
	}
	if compliance != nil {
		entry.ComplianceID = &compliance.ID
	}

	created, err := s.repo.CreateReport(ctx, entry)
	if err != nil {
		return nil, err
	}

	if scanEntry != nil && req.ReportType != models.ReportNIS2 {
		if err := s.repo.UpdateScanReport(ctx, scanEntry.ID, filePath); err != nil {
			return nil, err
		}
		cacheKey := scan.CacheKey(scanEntry.ID)
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate scan cache",
				slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	s.log.Info("generated report",
		slog.Int("id", created.ID), slog.String("type", string(created.ReportType)))
	return &Generated{Report: *created, ReportURL: filePath}, nil
}

// List возвращает отчёты пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Report, error) {
	return s.repo.ListUserReports(ctx, userUID)
}
