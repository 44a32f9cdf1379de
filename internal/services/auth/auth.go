// Package auth содержит логику бизнес-уровня для работы с пользователями
// и сессионными токенами: регистрация, вход, выход и проверка токена.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebmarkov/nis2-dashboard/internal/lib/jwt"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/password"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/services"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает запись с uid.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени без учёта регистра.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateUserPlan меняет тарифный план пользователя.
	UpdateUserPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error)
}

// TokenDenylist хранит отозванные сессионные токены до их естественного истечения.
type TokenDenylist interface {
	Set(key string, value any, expiration time.Duration) error
	Exists(key string) (bool, error)
}

const denylistPrefix = "session:revoked:"

// Service отвечает за регистрацию, вход, выход и валидацию сессионных токенов.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	denylist TokenDenylist
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, denylist TokenDenylist) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		denylist: denylist,
	}
}

// Register создает нового пользователя с хэшированием пароля и планом base.
// Пустое отображаемое имя заменяется на username. Занятое имя возвращает
// storage.ErrConflict из хранилища.
func (s *Service) Register(ctx context.Context, username, email, rawPassword, name string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	username = strings.ToLower(username)
	if name == "" {
		name = username
	}
	return s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Plan:         models.PlanBase,
	})
}

// Login проверяет пароль пользователя и генерирует сессионный JWT.
// Неизвестное имя и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, services.ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, services.ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout отзывает токен: помещает его в денлист до момента истечения.
func (s *Service) Logout(_ context.Context, token string) error {
	const op = "auth.Logout"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Set(denylistPrefix+token, true, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет подпись токена и его отсутствие в денлисте,
// возвращает claims с username и uid пользователя.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	revoked, err := s.denylist.Exists(denylistPrefix + token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: token revoked", op)
	}
	return claims, nil
}

// GetUser возвращает пользователя по uid из сессии.
func (s *Service) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUser(ctx, uid)
}

// UpdatePlan нормализует имя плана и меняет план пользователя.
// Неизвестное имя плана возвращает ErrUnknownPlan.
func (s *Service) UpdatePlan(ctx context.Context, uid, planName string) (*models.User, error) {
	plan, ok := models.ParsePlan(planName)
	if !ok {
		return nil, ErrUnknownPlan
	}
	return s.users.UpdateUserPlan(ctx, uid, plan)
}
