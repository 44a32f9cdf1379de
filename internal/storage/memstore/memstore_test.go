package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

func newUser(t *testing.T, s *Storage, username string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: "hash",
		Plan:         models.PlanBase,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserConflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	created := newUser(t, s, "Alice")
	assert.Equal(t, "alice", created.Username, "username stored lowercase")
	assert.NotEmpty(t, created.UID)
	assert.False(t, created.CreatedAt.IsZero())

	// Конфликт без учёта регистра
	_, err := s.CreateUser(ctx, models.User{Username: "ALICE", Email: "x@example.com"})
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestGetUserByUsernameCaseInsensitive(t *testing.T) {
	s := New()
	created := newUser(t, s, "alice")

	found, err := s.GetUserByUsername(context.Background(), "AlIcE")
	require.NoError(t, err)
	assert.Equal(t, created.UID, found.UID)

	_, err = s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateUserPlan(t *testing.T) {
	s := New()
	created := newUser(t, s, "alice")

	updated, err := s.UpdateUserPlan(context.Background(), created.UID, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, updated.Plan)

	_, err = s.UpdateUserPlan(context.Background(), "unknown-uid", models.PlanPro)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListUserScansOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := newUser(t, s, "alice")
	other := newUser(t, s, "bob")

	base := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.CreateScan(ctx, models.Scan{
			UserUID:  user.UID,
			URL:      "https://example.com",
			ScanDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := s.CreateScan(ctx, models.Scan{UserUID: other.UID, URL: "https://other.example"})
	require.NoError(t, err)

	scans, err := s.ListUserScans(ctx, user.UID, 0)
	require.NoError(t, err)
	require.Len(t, scans, 3, "foreign scans are excluded")
	assert.True(t, scans[0].ScanDate.After(scans[1].ScanDate))
	assert.True(t, scans[1].ScanDate.After(scans[2].ScanDate))

	limited, err := s.ListUserScans(ctx, user.UID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	latest, err := s.GetLatestScan(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, scans[0].ID, latest.ID)
}

func TestCountUserScansSince(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := newUser(t, s, "alice")

	// Два скана в июне, один в мае
	for _, date := range []time.Time{
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 31, 23, 59, 59, 0, time.UTC),
	} {
		_, err := s.CreateScan(ctx, models.Scan{UserUID: user.UID, URL: "https://example.com", ScanDate: date})
		require.NoError(t, err)
	}

	count, err := s.CountUserScansSince(ctx, user.UID, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// Первое число месяца входит в окно
	assert.Equal(t, 2, count)
}

func TestUpdateScanReport(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := newUser(t, s, "alice")

	created, err := s.CreateScan(ctx, models.Scan{UserUID: user.UID, URL: "https://example.com"})
	require.NoError(t, err)
	require.Nil(t, created.ReportURL)

	require.NoError(t, s.UpdateScanReport(ctx, created.ID, "/reports/files/a.pdf"))

	got, err := s.GetScan(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReportURL)
	assert.Equal(t, "/reports/files/a.pdf", *got.ReportURL)

	assert.ErrorIs(t, s.UpdateScanReport(ctx, 999, "x"), storage.ErrNotFound)
}

func TestGetLatestCompliance(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := newUser(t, s, "alice")

	_, err := s.GetLatestCompliance(ctx, user.UID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	older, err := s.CreateCompliance(ctx, models.Compliance{
		UserUID:   user.UID,
		Score:     40,
		CreatedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	newer, err := s.CreateCompliance(ctx, models.Compliance{
		UserUID:   user.UID,
		Score:     80,
		CreatedAt: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	latest, err := s.GetLatestCompliance(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.NotEqual(t, older.ID, latest.ID)
}

func TestReports(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := newUser(t, s, "alice")

	scanID := 1
	first, err := s.CreateReport(ctx, models.Report{
		UserUID:    user.UID,
		ScanID:     &scanID,
		ReportType: models.ReportSecurity,
		FilePath:   "/reports/files/a.pdf",
	})
	require.NoError(t, err)
	second, err := s.CreateReport(ctx, models.Report{
		UserUID:    user.UID,
		ReportType: models.ReportNIS2,
		FilePath:   "/reports/files/b.pdf",
	})
	require.NoError(t, err)

	got, err := s.GetReport(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportSecurity, got.ReportType)

	list, err := s.ListUserReports(ctx, user.UID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Новые первыми
	assert.Equal(t, second.ID, list[0].ID)
}
