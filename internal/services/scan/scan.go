// Package scan содержит бизнес-логику сканирования сайтов: месячную квоту
// по тарифному плану, запуск проверки-заглушки, AI-советы для Premium/Pro
// и кеширование прочитанных сканов.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebmarkov/nis2-dashboard/internal/advisor"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/month"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Repository определяет методы для работы со сканированиями в хранилище.
type Repository interface {
	// CreateScan сохраняет результат сканирования.
	CreateScan(ctx context.Context, scan models.Scan) (*models.Scan, error)
	// GetScan возвращает сканирование по id.
	GetScan(ctx context.Context, id int) (*models.Scan, error)
	// GetLatestScan возвращает последнее сканирование пользователя.
	GetLatestScan(ctx context.Context, userUID string) (*models.Scan, error)
	// ListUserScans возвращает сканирования пользователя, новые первыми.
	ListUserScans(ctx context.Context, userUID string, limit int) ([]*models.Scan, error)
	// CountUserScansSince считает сканирования с даты since включительно.
	CountUserScansSince(ctx context.Context, userUID string, since time.Time) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CacheKey возвращает ключ кеша для сканирования с данным id.
// Ключом пользуется и сервис отчётов при инвалидации после записи report_url.
func CacheKey(id int) string {
	return fmt.Sprintf("scan:%d", id)
}

// SecurityStats — сводка по последнему сканированию пользователя.
type SecurityStats struct {
	Score    int `json:"score"`
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Passed   int `json:"passed"`
}

// Service реализует бизнес-логику сканирования.
type Service struct {
	repo    Repository
	cache   Cache
	advisor advisor.Advisor
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, adv advisor.Advisor, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		advisor: adv,
		log:     log,
	}
}

// Scan проверяет квоту пользователя, выполняет проверку сайта, для Premium/Pro
// запрашивает AI-совет и сохраняет результат. Проверка квоты не транзакционна:
// параллельные запросы одного пользователя могут оба её пройти, лимит
// гарантируется как "не строже заявленного".
func (s *Service) Scan(ctx context.Context, user *models.User, url string) (*models.Scan, error) {
	quota := user.Plan.ScanQuota()
	if quota != models.UnlimitedScans {
		count, err := s.repo.CountUserScansSince(ctx, user.UID, month.Start(time.Now()))
		if err != nil {
			return nil, err
		}
		if count >= quota {
			return nil, &services.QuotaError{Plan: user.Plan.Display()}
		}
	}

	results := Check(url)
	entry := models.Scan{
		UserUID: user.UID,
		URL:     url,
		Score:   results.Score,
		Results: results,
	}

	if user.Plan.AllowsAI() {
		advice, err := s.advisor.SecurityAdvice(ctx, results)
		if err != nil {
			return nil, err
		}
		entry.AIAdvice = &advice
	}

	created, err := s.repo.CreateScan(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new scan", slog.Int("id", created.ID), slog.Int("score", created.Score))

	cacheKey := CacheKey(created.ID)
	if err := s.cache.Set(cacheKey, created, time.Hour); err != nil {
		s.log.Warn("failed to cache scan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return created, nil
}

// Get возвращает сканирование по id, используя кеш, и проверяет владение.
func (s *Service) Get(ctx context.Context, userUID string, id int) (*models.Scan, error) {
	var result *models.Scan
	cacheKey := CacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil || !found {
		result, err = s.repo.GetScan(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to cache scan", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	if result.UserUID != userUID {
		return nil, services.ErrNotOwner
	}
	return result, nil
}

// List возвращает сканирования пользователя; limit <= 0 означает все.
func (s *Service) List(ctx context.Context, userUID string, limit int) ([]*models.Scan, error) {
	return s.repo.ListUserScans(ctx, userUID, limit)
}

// SecurityStats считает сводку по последнему сканированию. Отсутствие
// сканирований — не ошибка, возвращаются нулевые значения.
func (s *Service) SecurityStats(ctx context.Context, userUID string) (*SecurityStats, error) {
	latest, err := s.repo.GetLatestScan(ctx, userUID)
	if errors.Is(err, storage.ErrNotFound) {
		return &SecurityStats{}, nil
	}
	if err != nil {
		return nil, err
	}

	stats := &SecurityStats{Score: latest.Score}
	for _, issue := range latest.Results.Issues {
		switch issue.Type {
		case models.IssueCritical:
			stats.Critical++
		case models.IssueWarning:
			stats.Warnings++
		case models.IssueInfo:
			stats.Infos++
		}
	}
	stats.Passed = totalChecks - (stats.Critical + stats.Warnings + stats.Infos)
	return stats, nil
}
