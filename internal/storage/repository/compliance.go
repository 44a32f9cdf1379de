package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// CreateCompliance сохраняет заполненную NIS2-анкету и возвращает запись с id.
func (s *Storage) CreateCompliance(ctx context.Context, c models.Compliance) (*models.Compliance, error) {
	const op = "repository.CreateCompliance"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	answers, err := json.Marshal(c.Answers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO compliance (user_uid, answers, score, recommendations)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at;`
	created := c
	if err := s.DB.QueryRowContext(ctx, query,
		c.UserUID, answers, c.Score, c.Recommendations).
		Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	return &created, nil
}

// GetCompliance возвращает оценку по id.
func (s *Storage) GetCompliance(ctx context.Context, id int) (*models.Compliance, error) {
	const op = "repository.GetCompliance"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, answers, score, recommendations, created_at
			  FROM compliance
			  WHERE id = $1`
	return scanComplianceRow(op, s.DB.QueryRowContext(ctx, query, id))
}

// GetLatestCompliance возвращает оценку пользователя с максимальным created_at.
func (s *Storage) GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error) {
	const op = "repository.GetLatestCompliance"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, answers, score, recommendations, created_at
			  FROM compliance
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT 1`
	return scanComplianceRow(op, s.DB.QueryRowContext(ctx, query, userUID))
}

func scanComplianceRow(op string, row rowScanner) (*models.Compliance, error) {
	c := &models.Compliance{}
	var answers []byte
	var recommendations sql.NullString
	if err := row.Scan(&c.ID, &c.UserUID, &answers, &c.Score,
		&recommendations, &c.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	if err := json.Unmarshal(answers, &c.Answers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if recommendations.Valid {
		c.Recommendations = &recommendations.String
	}
	return c, nil
}
