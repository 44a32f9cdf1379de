package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// CreateUser сохраняет нового пользователя и возвращает запись с uid и датой создания.
// Username приводится к нижнему регистру; занятое имя возвращает storage.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "repository.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	username := strings.ToLower(user.Username)
	if _, err := s.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (username, email, name, password_hash, plan)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid, created_at;`
	created := user
	created.Username = username
	if err := s.DB.QueryRowContext(ctx, query,
		username, user.Email, user.Name, user.PasswordHash, string(user.Plan)).
		Scan(&created.UID, &created.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	return &created, nil
}

// GetUser возвращает пользователя по его uid.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "repository.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, name, password_hash, plan, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUserRow(op, s.DB.QueryRowContext(ctx, query, uid))
}

// GetUserByUsername возвращает пользователя по имени без учёта регистра.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repository.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, name, password_hash, plan, created_at
			  FROM users
			  WHERE username = LOWER($1)`
	return s.scanUserRow(op, s.DB.QueryRowContext(ctx, query, username))
}

// UpdateUserPlan меняет тарифный план пользователя и возвращает обновлённую запись.
func (s *Storage) UpdateUserPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error) {
	const op = "repository.UpdateUserPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET plan = $1
			  WHERE uid = $2
			  RETURNING uid, username, email, name, password_hash, plan, created_at`
	return s.scanUserRow(op, s.DB.QueryRowContext(ctx, query, string(plan), uid))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanUserRow(op string, row rowScanner) (*models.User, error) {
	u := &models.User{}
	var plan string
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.Name,
		&u.PasswordHash, &plan, &u.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	u.Plan = models.Plan(plan)
	return u, nil
}
