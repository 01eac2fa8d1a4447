package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Placeholder values for directory metrics not tracked in the data model.
const (
	placeholderAvatar     = "/api/placeholder/100/100"
	placeholderExperience = "N/A"
	placeholderService    = "Service provider"
)

// listableRoles are the roles exposed through the public directory.
var listableRoles = map[string]struct{}{
	types.RoleLandlord:        {},
	types.RoleAgent:           {},
	types.RoleServiceProvider: {},
}

// UserService defines the business logic contract for user listings.
type UserService interface {
	ListByRole(ctx context.Context, role string) ([]types.DirectoryEntry, error)
	ListAll(ctx context.Context) ([]types.AdminUserEntry, error)
}

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListByRole serves the public directory of a professional role. Unknown
// roles are a validation error, not an empty result.
func (s *UserServiceImpl) ListByRole(ctx context.Context, role string) ([]types.DirectoryEntry, error) {
	l := s.logger.With(slog.String("method", "ListByRole"), slog.String("role", role))

	if _, ok := listableRoles[role]; !ok {
		l.WarnContext(ctx, "Unknown directory role requested")
		return nil, fmt.Errorf("invalid role %q: %w", role, types.ErrValidation)
	}

	users, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, err
	}

	entries := make([]types.DirectoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, toDirectoryEntry(u))
	}
	return entries, nil
}

// ListAll serves the admin account listing.
func (s *UserServiceImpl) ListAll(ctx context.Context) ([]types.AdminUserEntry, error) {
	l := s.logger.With(slog.String("method", "ListAll"))

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		return nil, err
	}

	entries := make([]types.AdminUserEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, toAdminEntry(u))
	}
	return entries, nil
}

func toDirectoryEntry(u types.User) types.DirectoryEntry {
	entry := types.DirectoryEntry{
		ID:         u.ID,
		Name:       u.FirstName + " " + u.LastName,
		Properties: 0,
		Rating:     u.Rating,
		Image:      placeholderAvatar,
		Experience: placeholderExperience,
		Service:    placeholderService,
		Reviews:    0,
		Verified:   u.IsVerified,
	}
	if u.Avatar != nil && *u.Avatar != "" {
		entry.Image = *u.Avatar
	}
	return entry
}

func toAdminEntry(u types.User) types.AdminUserEntry {
	entry := types.AdminUserEntry{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		JoinDate:   u.CreatedAt,
		Status:     "active",
	}
	if u.Phone != nil {
		entry.Phone = *u.Phone
	}
	if u.Avatar != nil {
		entry.Avatar = *u.Avatar
	}
	return entry
}
