// Package memstore реализует контракт storage.Gateway поверх map в памяти.
//
// Бэкенд предназначен для разработки и тестов: данные живут до перезапуска
// процесса. Семантика операций идентична реализации на PostgreSQL.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Storage хранит все сущности в map, защищённых одним мьютексом.
// Сущности не мутируются после создания (кроме плана пользователя и
// report_url скана), поэтому наружу отдаются копии структур.
type Storage struct {
	mu sync.RWMutex

	users      map[string]*models.User
	scans      map[int]*models.Scan
	compliance map[int]*models.Compliance
	reports    map[int]*models.Report

	nextScanID       int
	nextComplianceID int
	nextReportID     int
}

// New создаёт пустое in-memory хранилище.
func New() *Storage {
	return &Storage{
		users:            make(map[string]*models.User),
		scans:            make(map[int]*models.Scan),
		compliance:       make(map[int]*models.Compliance),
		reports:          make(map[int]*models.Report),
		nextScanID:       1,
		nextComplianceID: 1,
		nextReportID:     1,
	}
}

// SeedDemoUser добавляет демо-пользователя для локальной разработки.
// В продовом пути (PostgreSQL) аналога нет.
func (s *Storage) SeedDemoUser(passwordHash string) (*models.User, error) {
	user, err := s.CreateUser(context.Background(), models.User{
		Username:     "demo",
		Email:        "demo@example.com",
		Name:         "Demo User",
		PasswordHash: passwordHash,
		Plan:         models.PlanBase,
	})
	if err != nil {
		return nil, fmt.Errorf("memstore.SeedDemoUser: %w", err)
	}
	return user, nil
}

// CreateUser назначает uid и created_at, приводит имя к нижнему регистру.
func (s *Storage) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	const op = "memstore.CreateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(user.Username)
	for _, u := range s.users {
		if u.Username == username {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
	}

	created := user
	created.UID = uuid.New().String()
	created.Username = username
	created.CreatedAt = time.Now().UTC()
	s.users[created.UID] = &created

	result := created
	return &result, nil
}

// GetUser возвращает пользователя по uid.
func (s *Storage) GetUser(_ context.Context, uid string) (*models.User, error) {
	const op = "memstore.GetUser"
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	result := *u
	return &result, nil
}

// GetUserByUsername ищет пользователя без учёта регистра имени.
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "memstore.GetUserByUsername"
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(username)
	for _, u := range s.users {
		if u.Username == needle {
			result := *u
			return &result, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// UpdateUserPlan меняет план пользователя.
func (s *Storage) UpdateUserPlan(_ context.Context, uid string, plan models.Plan) (*models.User, error) {
	const op = "memstore.UpdateUserPlan"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	u.Plan = plan
	result := *u
	return &result, nil
}

// CreateScan назначает id и scan_date.
func (s *Storage) CreateScan(_ context.Context, scan models.Scan) (*models.Scan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := scan
	created.ID = s.nextScanID
	s.nextScanID++
	// Нулевая дата означает "сейчас"; заданная дата сохраняется как есть,
	// этим пользуются тесты месячной квоты.
	if created.ScanDate.IsZero() {
		created.ScanDate = time.Now().UTC()
	}
	s.scans[created.ID] = &created

	result := created
	return &result, nil
}

// GetScan возвращает сканирование по id.
func (s *Storage) GetScan(_ context.Context, id int) (*models.Scan, error) {
	const op = "memstore.GetScan"
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scans[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	result := *sc
	return &result, nil
}

// GetLatestScan возвращает последнее по дате сканирование пользователя.
func (s *Storage) GetLatestScan(ctx context.Context, userUID string) (*models.Scan, error) {
	const op = "memstore.GetLatestScan"
	scans, err := s.ListUserScans(ctx, userUID, 1)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return scans[0], nil
}

// ListUserScans возвращает сканирования пользователя, новые первыми.
func (s *Storage) ListUserScans(_ context.Context, userUID string, limit int) ([]*models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Scan
	for _, sc := range s.scans {
		if sc.UserUID == userUID {
			copied := *sc
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ScanDate.Equal(result[j].ScanDate) {
			return result[i].ID > result[j].ID
		}
		return result[i].ScanDate.After(result[j].ScanDate)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountUserScansSince считает сканирования пользователя с даты since включительно.
func (s *Storage) CountUserScansSince(_ context.Context, userUID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, sc := range s.scans {
		if sc.UserUID == userUID && !sc.ScanDate.Before(since) {
			count++
		}
	}
	return count, nil
}

// UpdateScanReport записывает в скан ссылку на отчёт.
func (s *Storage) UpdateScanReport(_ context.Context, scanID int, reportURL string) error {
	const op = "memstore.UpdateScanReport"
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scans[scanID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	url := reportURL
	sc.ReportURL = &url
	return nil
}

// CreateCompliance назначает id и created_at.
func (s *Storage) CreateCompliance(_ context.Context, c models.Compliance) (*models.Compliance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := c
	created.ID = s.nextComplianceID
	s.nextComplianceID++
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.compliance[created.ID] = &created

	result := created
	return &result, nil
}

// GetCompliance возвращает оценку по id.
func (s *Storage) GetCompliance(_ context.Context, id int) (*models.Compliance, error) {
	const op = "memstore.GetCompliance"
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.compliance[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	result := *c
	return &result, nil
}

// GetLatestCompliance возвращает оценку пользователя с максимальным created_at.
func (s *Storage) GetLatestCompliance(_ context.Context, userUID string) (*models.Compliance, error) {
	const op = "memstore.GetLatestCompliance"
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Compliance
	for _, c := range s.compliance {
		if c.UserUID != userUID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) ||
			(c.CreatedAt.Equal(latest.CreatedAt) && c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	result := *latest
	return &result, nil
}

// CreateReport назначает id и created_at.
func (s *Storage) CreateReport(_ context.Context, r models.Report) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := r
	created.ID = s.nextReportID
	s.nextReportID++
	created.CreatedAt = time.Now().UTC()
	s.reports[created.ID] = &created

	result := created
	return &result, nil
}

// GetReport возвращает отчёт по id.
func (s *Storage) GetReport(_ context.Context, id int) (*models.Report, error) {
	const op = "memstore.GetReport"
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	result := *r
	return &result, nil
}

// ListUserReports возвращает отчёты пользователя, новые первыми.
func (s *Storage) ListUserReports(_ context.Context, userUID string) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Report
	for _, r := range s.reports {
		if r.UserUID == userUID {
			copied := *r
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
