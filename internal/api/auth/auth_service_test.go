package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// MockAuthRepo is a mock implementation of AuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, params types.RegisterRequest, passwordHash string) (*types.User, error) {
	args := m.Called(ctx, params, passwordHash)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error) {
	args := m.Called(ctx, userID, params)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	args := m.Called(ctx, userID, newPasswordHash)
	return args.Error(0)
}

func (m *MockAuthRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var testJWTCfg = config.JWTConfig{
	SecretKey:  "test-secret-key",
	Issuer:     "rental-marketplace",
	Audience:   "rental-marketplace-clients",
	TokenTTL:   168 * time.Hour,
	CookieName: "token",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	params := types.RegisterRequest{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		Password:  "secret123",
		Role:      types.RoleLandlord,
	}

	t.Run("success issues token carrying id and role", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		userID := uuid.New()
		mockRepo.On("CreateUser", ctx, params, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				hash := args.String(2)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(params.Password)))
			}).
			Return(&types.User{ID: userID, Email: params.Email, Role: types.RoleLandlord}, nil).Once()

		user, token, err := service.Register(ctx, params)
		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotEmpty(t, token)

		claims := &types.Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(testJWTCfg.SecretKey), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, types.RoleLandlord, claims.Role)
		assert.WithinDuration(t, time.Now().Add(testJWTCfg.TokenTTL), claims.ExpiresAt.Time, time.Minute)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email surfaces conflict", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("CreateUser", ctx, params, mock.AnythingOfType("string")).
			Return(nil, types.ErrConflict).Once()

		_, _, err := service.Register(ctx, params)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	password := "secret123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := &types.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         types.RoleTenant,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("GetUserByEmail", ctx, storedUser.Email).Return(storedUser, nil).Once()

		user, token, err := service.Login(ctx, storedUser.Email, password)
		require.NoError(t, err)
		assert.Equal(t, storedUser.ID, user.ID)
		assert.NotEmpty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email maps to unauthenticated", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, types.ErrNotFound).Once()

		_, _, err := service.Login(ctx, "nobody@example.com", password)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password maps to unauthenticated", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("GetUserByEmail", ctx, storedUser.Email).Return(storedUser, nil).Once()

		_, _, err := service.Login(ctx, storedUser.Email, "wrong-password")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	currentPassword := "oldsecret"
	hash, err := bcrypt.GenerateFromPassword([]byte(currentPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := &types.User{ID: userID, PasswordHash: string(hash)}

	t.Run("success rehashes and stores", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("GetUserByID", ctx, userID).Return(storedUser, nil).Once()
		mockRepo.On("UpdatePassword", ctx, userID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash := args.String(2)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newsecret")))
			}).
			Return(nil).Once()

		err := service.ChangePassword(ctx, userID, currentPassword, "newsecret")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong current password maps to validation error", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("GetUserByID", ctx, userID).Return(storedUser, nil).Once()

		err := service.ChangePassword(ctx, userID, "not-the-password", "newsecret")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("propagates not found", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTCfg, testLogger())

		mockRepo.On("DeleteUser", ctx, userID).Return(types.ErrNotFound).Once()

		err := service.DeleteAccount(ctx, userID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
