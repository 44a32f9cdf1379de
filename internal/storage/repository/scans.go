package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// CreateScan сохраняет результат сканирования и возвращает запись с id и датой.
func (s *Storage) CreateScan(ctx context.Context, scan models.Scan) (*models.Scan, error) {
	const op = "repository.CreateScan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	results, err := json.Marshal(scan.Results)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO scans (user_uid, url, score, results, ai_advice)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, scan_date;`
	created := scan
	if err := s.DB.QueryRowContext(ctx, query,
		scan.UserUID, scan.URL, scan.Score, results, scan.AIAdvice).
		Scan(&created.ID, &created.ScanDate); err != nil {
		return nil, mapRowError(op, err)
	}
	return &created, nil
}

// GetScan возвращает сканирование по id.
func (s *Storage) GetScan(ctx context.Context, id int) (*models.Scan, error) {
	const op = "repository.GetScan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, url, score, results, ai_advice, report_url, scan_date
			  FROM scans
			  WHERE id = $1`
	return scanScanRow(op, s.DB.QueryRowContext(ctx, query, id))
}

// GetLatestScan возвращает последнее по дате сканирование пользователя.
func (s *Storage) GetLatestScan(ctx context.Context, userUID string) (*models.Scan, error) {
	const op = "repository.GetLatestScan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, url, score, results, ai_advice, report_url, scan_date
			  FROM scans
			  WHERE user_uid = $1
			  ORDER BY scan_date DESC
			  LIMIT 1`
	return scanScanRow(op, s.DB.QueryRowContext(ctx, query, userUID))
}

// ListUserScans возвращает сканирования пользователя, новые первыми.
// limit <= 0 означает выборку без ограничения.
func (s *Storage) ListUserScans(ctx context.Context, userUID string, limit int) ([]*models.Scan, error) {
	const op = "repository.ListUserScans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, url, score, results, ai_advice, report_url, scan_date
			  FROM scans
			  WHERE user_uid = $1
			  ORDER BY scan_date DESC`
	args := []any{userUID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Scan
	for rows.Next() {
		scan, err := scanScanRow(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, scan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUserScansSince считает сканирования пользователя с даты since включительно.
func (s *Storage) CountUserScansSince(ctx context.Context, userUID string, since time.Time) (int, error) {
	const op = "repository.CountUserScansSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM scans WHERE user_uid = $1 AND scan_date >= $2`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateScanReport записывает в скан ссылку на сгенерированный отчёт.
func (s *Storage) UpdateScanReport(ctx context.Context, scanID int, reportURL string) error {
	const op = "repository.UpdateScanReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE scans SET report_url = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, reportURL, scanID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return mapRowError(op, sql.ErrNoRows)
	}
	return nil
}

func scanScanRow(op string, row rowScanner) (*models.Scan, error) {
	sc := &models.Scan{}
	var results []byte
	var aiAdvice, reportURL sql.NullString
	if err := row.Scan(&sc.ID, &sc.UserUID, &sc.URL, &sc.Score,
		&results, &aiAdvice, &reportURL, &sc.ScanDate); err != nil {
		return nil, mapRowError(op, err)
	}
	if err := json.Unmarshal(results, &sc.Results); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if aiAdvice.Valid {
		sc.AIAdvice = &aiAdvice.String
	}
	if reportURL.Valid {
		sc.ReportURL = &reportURL.String
	}
	return sc, nil
}
