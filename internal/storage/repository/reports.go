package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// CreateReport сохраняет ссылку на сгенерированный отчёт.
func (s *Storage) CreateReport(ctx context.Context, r models.Report) (*models.Report, error) {
	const op = "repository.CreateReport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reports (user_uid, scan_id, compliance_id, report_type, file_path)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at;`
	created := r
	if err := s.DB.QueryRowContext(ctx, query,
		r.UserUID, r.ScanID, r.ComplianceID, string(r.ReportType), r.FilePath).
		Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	return &created, nil
}

// GetReport возвращает отчёт по id.
func (s *Storage) GetReport(ctx context.Context, id int) (*models.Report, error) {
	const op = "repository.GetReport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, scan_id, compliance_id, report_type, file_path, created_at
			  FROM reports
			  WHERE id = $1`
	return scanReportRow(op, s.DB.QueryRowContext(ctx, query, id))
}

// ListUserReports возвращает отчёты пользователя, новые первыми.
func (s *Storage) ListUserReports(ctx context.Context, userUID string) ([]*models.Report, error) {
	const op = "repository.ListUserReports"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, scan_id, compliance_id, report_type, file_path, created_at
			  FROM reports
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		report, err := scanReportRow(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanReportRow(op string, row rowScanner) (*models.Report, error) {
	r := &models.Report{}
	var scanID, complianceID sql.NullInt64
	var reportType string
	if err := row.Scan(&r.ID, &r.UserUID, &scanID, &complianceID,
		&reportType, &r.FilePath, &r.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	r.ReportType = models.ReportType(reportType)
	if scanID.Valid {
		id := int(scanID.Int64)
		r.ScanID = &id
	}
	if complianceID.Valid {
		id := int(complianceID.Int64)
		r.ComplianceID = &id
	}
	return r, nil
}
