package report

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// MockRepository реализует интерфейс report.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateReport(ctx context.Context, entry models.Report) (*models.Report, error) {
	args := m.Called(ctx, entry)
	if res := args.Get(0); res != nil {
		return res.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListUserReports(ctx context.Context, userUID string) ([]*models.Report, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetScan(ctx context.Context, id int) (*models.Scan, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Scan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateScanReport(ctx context.Context, id int, reportURL string) error {
	args := m.Called(ctx, id, reportURL)
	return args.Error(0)
}

func (m *MockRepository) GetCompliance(ctx context.Context, id int) (*models.Compliance, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Compliance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Compliance), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRenderer реализует интерфейс renderer.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderSecurity(ctx context.Context, scan *models.Scan, compliance *models.Compliance, opts models.ReportOptions) (string, error) {
	args := m.Called(ctx, scan, compliance, opts)
	return args.String(0), args.Error(1)
}

func (m *MockRenderer) RenderCompliance(ctx context.Context, compliance *models.Compliance, opts models.ReportOptions) (string, error) {
	args := m.Called(ctx, compliance, opts)
	return args.String(0), args.Error(1)
}

// MockCache реализует интерфейс scan.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func intPtr(v int) *int { return &v }

func TestServiceGenerate(t *testing.T) {
	baseUser := &models.User{UID: "uid-1", Plan: models.PlanBase}
	premiumUser := &models.User{UID: "uid-2", Plan: models.PlanPremium}
	allOpts := models.ReportOptions{IncludeDetails: true, IncludeAI: true, IncludeRemediation: true}

	t.Run("security отчет обновляет сканирование и сбрасывает кеш", func(t *testing.T) {
		repo := new(MockRepository)
		rnd := new(MockRenderer)
		cache := new(MockCache)

		scanEntry := &models.Scan{ID: 5, UserUID: "uid-1"}
		repo.On("GetScan", mock.Anything, 5).Return(scanEntry, nil)
		rnd.On("RenderSecurity", mock.Anything, scanEntry, (*models.Compliance)(nil), allOpts).
			Return("/reports/files/abc.pdf", nil)
		repo.On("CreateReport", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
			return r.UserUID == "uid-1" && r.ReportType == models.ReportSecurity &&
				r.ScanID != nil && *r.ScanID == 5 && r.ComplianceID == nil
		})).Return(&models.Report{ID: 1, UserUID: "uid-1", ReportType: models.ReportSecurity}, nil)
		repo.On("UpdateScanReport", mock.Anything, 5, "/reports/files/abc.pdf").Return(nil)
		cache.On("Invalidate", "scan:5").Return(nil)

		svc := New(repo, rnd, cache, newNoopLogger())
		generated, err := svc.Generate(context.Background(), baseUser, Request{
			ScanID: intPtr(5), ReportType: models.ReportSecurity, Options: allOpts,
		})
		require.NoError(t, err)
		assert.Equal(t, "/reports/files/abc.pdf", generated.ReportURL)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("comprehensive недоступен на base, ничего не сохраняется", func(t *testing.T) {
		repo := new(MockRepository)

		svc := New(repo, new(MockRenderer), new(MockCache), newNoopLogger())
		_, err := svc.Generate(context.Background(), baseUser, Request{
			ScanID: intPtr(5), ReportType: models.ReportComprehensive, Options: allOpts,
		})
		require.ErrorIs(t, err, services.ErrPlanRequired)
		repo.AssertNotCalled(t, "CreateReport", mock.Anything, mock.Anything)
	})

	t.Run("security без scan id", func(t *testing.T) {
		svc := New(new(MockRepository), new(MockRenderer), new(MockCache), newNoopLogger())
		_, err := svc.Generate(context.Background(), baseUser, Request{
			ReportType: models.ReportSecurity, Options: allOpts,
		})
		require.ErrorIs(t, err, ErrScanRequired)
	})

	t.Run("чужое сканирование запрещено", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetScan", mock.Anything, 5).Return(&models.Scan{ID: 5, UserUID: "uid-other"}, nil)

		svc := New(repo, new(MockRenderer), new(MockCache), newNoopLogger())
		_, err := svc.Generate(context.Background(), baseUser, Request{
			ScanID: intPtr(5), ReportType: models.ReportSecurity, Options: allOpts,
		})
		require.ErrorIs(t, err, services.ErrNotOwner)
		repo.AssertNotCalled(t, "CreateReport", mock.Anything, mock.Anything)
	})

	t.Run("nis2 отчет без compliance id берет последнюю оценку", func(t *testing.T) {
		repo := new(MockRepository)
		rnd := new(MockRenderer)

		compliance := &models.Compliance{ID: 9, UserUID: "uid-1"}
		repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(compliance, nil)
		rnd.On("RenderCompliance", mock.Anything, compliance, allOpts).Return("/reports/files/nis2.pdf", nil)
		repo.On("CreateReport", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
			return r.ReportType == models.ReportNIS2 && r.ComplianceID != nil && *r.ComplianceID == 9 && r.ScanID == nil
		})).Return(&models.Report{ID: 2, ReportType: models.ReportNIS2}, nil)

		svc := New(repo, rnd, new(MockCache), newNoopLogger())
		generated, err := svc.Generate(context.Background(), baseUser, Request{
			ReportType: models.ReportNIS2, Options: allOpts,
		})
		require.NoError(t, err)
		assert.Equal(t, "/reports/files/nis2.pdf", generated.ReportURL)
		// nis2-отчет не трогает сканирования
		repo.AssertNotCalled(t, "UpdateScanReport", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nis2 без единой оценки", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(nil, storage.ErrNotFound)

		svc := New(repo, new(MockRenderer), new(MockCache), newNoopLogger())
		_, err := svc.Generate(context.Background(), baseUser, Request{
			ReportType: models.ReportNIS2, Options: allOpts,
		})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("comprehensive на premium собирает оба источника", func(t *testing.T) {
		repo := new(MockRepository)
		rnd := new(MockRenderer)
		cache := new(MockCache)

		scanEntry := &models.Scan{ID: 5, UserUID: "uid-2"}
		compliance := &models.Compliance{ID: 9, UserUID: "uid-2"}
		repo.On("GetScan", mock.Anything, 5).Return(scanEntry, nil)
		repo.On("GetCompliance", mock.Anything, 9).Return(compliance, nil)
		rnd.On("RenderSecurity", mock.Anything, scanEntry, compliance, allOpts).
			Return("/reports/files/full.pdf", nil)
		repo.On("CreateReport", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
			return r.ReportType == models.ReportComprehensive &&
				r.ScanID != nil && r.ComplianceID != nil
		})).Return(&models.Report{ID: 3, ReportType: models.ReportComprehensive}, nil)
		repo.On("UpdateScanReport", mock.Anything, 5, "/reports/files/full.pdf").Return(nil)
		cache.On("Invalidate", "scan:5").Return(nil)

		svc := New(repo, rnd, cache, newNoopLogger())
		generated, err := svc.Generate(context.Background(), premiumUser, Request{
			ScanID: intPtr(5), ComplianceID: intPtr(9),
			ReportType: models.ReportComprehensive, Options: allOpts,
		})
		require.NoError(t, err)
		assert.Equal(t, "/reports/files/full.pdf", generated.ReportURL)
		repo.AssertExpectations(t)
	})
}
