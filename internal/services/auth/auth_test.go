package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glebmarkov/nis2-dashboard/internal/lib/jwt"
	"github.com/glebmarkov/nis2-dashboard/internal/lib/password"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// MockUserRepository реализует интерфейс auth.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateUserPlan(ctx context.Context, uid string, plan models.Plan) (*models.User, error) {
	args := m.Called(ctx, uid, plan)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeDenylist — потокобезопасный денлист в памяти для тестов.
type fakeDenylist struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{keys: make(map[string]bool)}
}

func (f *fakeDenylist) Set(key string, _ any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = true
	return nil
}

func (f *fakeDenylist) Exists(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func TestRegister(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// Имя приводится к нижнему регистру, пустое имя заменяется на username,
		// план всегда base, пароль захеширован
		return u.Username == "alice" &&
			u.Name == "alice" &&
			u.Plan == models.PlanBase &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return(&models.User{UID: "uid-1", Username: "alice", Plan: models.PlanBase}, nil)

	svc := New(repo, jwt.NewJWTMaker("test-secret", time.Hour), newFakeDenylist())
	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.UID)
	repo.AssertExpectations(t)
}

func TestLoginAndValidate(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	stored := &models.User{UID: "uid-1", Username: "alice", PasswordHash: hash, Plan: models.PlanBase}

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(repo *MockUserRepository)
		wantErr   bool
	}{
		{
			name:     "успешный вход",
			username: "alice",
			password: "secret123",
			setupMock: func(repo *MockUserRepository) {
				repo.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil)
			},
		},
		{
			name:     "неверный пароль",
			username: "alice",
			password: "wrong",
			setupMock: func(repo *MockUserRepository) {
				repo.On("GetUserByUsername", mock.Anything, "alice").Return(stored, nil)
			},
			wantErr: true,
		},
		{
			name:     "неизвестный пользователь",
			username: "nobody",
			password: "secret123",
			setupMock: func(repo *MockUserRepository) {
				repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, storage.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			svc := New(repo, jwt.NewJWTMaker("test-secret", time.Hour), newFakeDenylist())
			token, user, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "uid-1", user.UID)

			claims, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, "uid-1", claims.UserUID)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	repo := new(MockUserRepository)
	repo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{UID: "uid-1", Username: "alice", PasswordHash: hash}, nil)

	svc := New(repo, jwt.NewJWTMaker("test-secret", time.Hour), newFakeDenylist())
	token, _, err := svc.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err, "revoked token must not validate")
}

func TestUpdatePlan(t *testing.T) {
	t.Run("известный план нормализуется", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("UpdateUserPlan", mock.Anything, "uid-1", models.PlanPremium).
			Return(&models.User{UID: "uid-1", Plan: models.PlanPremium}, nil)

		svc := New(repo, jwt.NewJWTMaker("test-secret", time.Hour), newFakeDenylist())
		user, err := svc.UpdatePlan(context.Background(), "uid-1", "Premium")
		require.NoError(t, err)
		assert.Equal(t, models.PlanPremium, user.Plan)
	})

	t.Run("неизвестный план", func(t *testing.T) {
		repo := new(MockUserRepository)

		svc := New(repo, jwt.NewJWTMaker("test-secret", time.Hour), newFakeDenylist())
		_, err := svc.UpdatePlan(context.Background(), "uid-1", "enterprise")
		require.ErrorIs(t, err, ErrUnknownPlan)
		repo.AssertNotCalled(t, "UpdateUserPlan", mock.Anything, mock.Anything, mock.Anything)
	})
}
