package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// AuthService defines the business logic contract for account management.
type AuthService interface {
	Register(ctx context.Context, params types.RegisterRequest) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl provides account registration, credential verification and
// token issuance on top of AuthRepo.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

// NewAuthService creates a new auth service instance.
func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

// Register hashes the password, persists the account and issues a session
// token so the client is signed in immediately after signup.
func (s *AuthServiceImpl) Register(ctx context.Context, params types.RegisterRequest) (*types.User, string, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", params.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, params, string(hash))
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Registration attempt with existing email")
			return nil, "", err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to sign token", slog.Any("error", err))
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()), slog.String("role", user.Role))
	return user, token, nil
}

// Login verifies credentials and issues a session token. Lookup misses and
// bad passwords both surface as ErrUnauthenticated so the response never
// reveals whether the email exists.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown email")
			return nil, "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch")
		return nil, "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	token, err := s.generateToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to sign token", slog.Any("error", err))
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	return user, token, nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error) {
	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	user, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Profile updated")
	return user, nil
}

// ChangePassword verifies the current password before rehashing and storing
// the new one.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		l.WarnContext(ctx, "Current password mismatch")
		return fmt.Errorf("current password is incorrect: %w", types.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		l.ErrorContext(ctx, "Failed to store new password", slog.Any("error", err))
		return err
	}

	l.InfoContext(ctx, "Password changed")
	return nil
}

func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteAccount"), slog.String("userID", userID.String()))

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to delete account", slog.Any("error", err))
		return err
	}

	l.InfoContext(ctx, "Account deleted")
	return nil
}

// generateToken signs an HS256 session token carrying the user id and role.
func (s *AuthServiceImpl) generateToken(user *types.User) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}
