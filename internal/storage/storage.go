// Package storage определяет единый контракт шлюза хранения данных дашборда.
//
// Контракт реализуют два бэкенда: repository (PostgreSQL) и memstore
// (in-memory). Выбор реализации происходит при старте процесса по
// конфигурации; вызывающий код никогда не ветвится по типу бэкенда.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// ErrNotFound возвращается точечными выборками, когда записи нет.
var ErrNotFound = errors.New("not found")

// ErrConflict возвращается при нарушении уникальности (занятый username).
var ErrConflict = errors.New("already exists")

// Gateway — контракт CRUD-операций над четырьмя сущностями дашборда.
// Проверки владения записями выполняет вызывающая сторона, не хранилище.
type Gateway interface {
	// GetUser возвращает пользователя по uid или ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// GetUserByUsername ищет пользователя без учёта регистра имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser назначает uid и created_at, приводит username к нижнему
	// регистру; возвращает ErrConflict, если имя занято.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// UpdateUserPlan меняет план пользователя, ErrNotFound для неизвестного uid.
	UpdateUserPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error)

	// GetScan возвращает сканирование по id или ErrNotFound.
	GetScan(ctx context.Context, id int) (*models.Scan, error)
	// GetLatestScan возвращает последнее сканирование пользователя.
	GetLatestScan(ctx context.Context, userUID string) (*models.Scan, error)
	// ListUserScans возвращает сканирования пользователя, новые первыми.
	// limit <= 0 означает "все".
	ListUserScans(ctx context.Context, userUID string, limit int) ([]*models.Scan, error)
	// CountUserScansSince считает сканирования с даты since включительно.
	CountUserScansSince(ctx context.Context, userUID string, since time.Time) (int, error)
	// CreateScan назначает id и scan_date и сохраняет запись. PostgreSQL
	// всегда ставит now(); in-memory бэкенд сохраняет заранее заданную
	// ненулевую дату — это допущение только для тестов месячной квоты,
	// рабочий код никогда не передает ScanDate.
	CreateScan(ctx context.Context, scan models.Scan) (*models.Scan, error)
	// UpdateScanReport записывает ссылку на отчёт — единственная мутация скана.
	UpdateScanReport(ctx context.Context, scanID int, reportURL string) error

	// GetCompliance возвращает оценку по id или ErrNotFound.
	GetCompliance(ctx context.Context, id int) (*models.Compliance, error)
	// GetLatestCompliance возвращает оценку с максимальным created_at.
	GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error)
	// CreateCompliance назначает id и created_at и сохраняет запись.
	CreateCompliance(ctx context.Context, c models.Compliance) (*models.Compliance, error)

	// GetReport возвращает отчёт по id или ErrNotFound.
	GetReport(ctx context.Context, id int) (*models.Report, error)
	// ListUserReports возвращает отчёты пользователя, новые первыми.
	ListUserReports(ctx context.Context, userUID string) ([]*models.Report, error)
	// CreateReport назначает id и created_at и сохраняет запись.
	CreateReport(ctx context.Context, r models.Report) (*models.Report, error)
}
