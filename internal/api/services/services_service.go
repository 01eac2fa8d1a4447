package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-rental-marketplace/internal/api/access"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

const defaultServicesLimit = 10

// ParseServiceFilter reads the listing query parameters permissively, the
// same contract as the property listing but with a smaller default page.
func ParseServiceFilter(query url.Values) types.ServiceFilter {
	f := types.ServiceFilter{
		Page:  1,
		Limit: defaultServicesLimit,
	}
	if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	f.Category = query.Get("category")
	f.Location = query.Get("location")
	return f
}

// ServicesService defines the business logic contract for offered services.
type ServicesService interface {
	Create(ctx context.Context, principal types.Principal, params types.CreateServiceParams) (*types.Service, error)
	Get(ctx context.Context, serviceID uuid.UUID) (*types.Service, error)
	Update(ctx context.Context, principal types.Principal, serviceID uuid.UUID, params types.UpdateServiceParams) (*types.Service, error)
	Delete(ctx context.Context, principal types.Principal, serviceID uuid.UUID) error
	Search(ctx context.Context, filter types.ServiceFilter) ([]types.Service, *types.Pagination, error)
}

// Ensure implementation satisfies the interface
var _ ServicesService = (*ServicesServiceImpl)(nil)

// ServicesServiceImpl enforces the ownership guard in front of ServiceRepo.
type ServicesServiceImpl struct {
	logger *slog.Logger
	repo   ServiceRepo
}

// NewServicesService creates a new services service instance.
func NewServicesService(repo ServiceRepo, logger *slog.Logger) *ServicesServiceImpl {
	return &ServicesServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Create persists a new service for the acting provider. Only the
// service-provider role may create; the provider is always the creator.
func (s *ServicesServiceImpl) Create(ctx context.Context, principal types.Principal, params types.CreateServiceParams) (*types.Service, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("userID", principal.ID.String()))

	if !access.CanCreateService(principal.Role) {
		l.WarnContext(ctx, "Role not allowed to create services", slog.String("role", principal.Role))
		return nil, fmt.Errorf("role %q cannot create services: %w", principal.Role, types.ErrForbidden)
	}

	service, err := s.repo.Insert(ctx, principal.ID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create service", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Service created", slog.String("serviceID", service.ID.String()))
	return service, nil
}

func (s *ServicesServiceImpl) Get(ctx context.Context, serviceID uuid.UUID) (*types.Service, error) {
	return s.repo.GetByID(ctx, serviceID)
}

// Update runs existence before ownership, then the write.
func (s *ServicesServiceImpl) Update(ctx context.Context, principal types.Principal, serviceID uuid.UUID, params types.UpdateServiceParams) (*types.Service, error) {
	l := s.logger.With(
		slog.String("method", "Update"),
		slog.String("serviceID", serviceID.String()),
		slog.String("userID", principal.ID.String()),
	)

	ownership, err := s.repo.GetOwnership(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !ownership.IsActive {
		return nil, fmt.Errorf("service %s: %w", serviceID, types.ErrNotFound)
	}
	if !access.CanModifyService(principal, ownership.ProviderID) {
		l.WarnContext(ctx, "Ownership check failed")
		return nil, fmt.Errorf("user %s cannot modify service %s: %w", principal.ID, serviceID, types.ErrForbidden)
	}

	service, err := s.repo.Update(ctx, serviceID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update service", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Service updated")
	return service, nil
}

// Delete soft deletes after the same guard as Update. Idempotent.
func (s *ServicesServiceImpl) Delete(ctx context.Context, principal types.Principal, serviceID uuid.UUID) error {
	l := s.logger.With(
		slog.String("method", "Delete"),
		slog.String("serviceID", serviceID.String()),
		slog.String("userID", principal.ID.String()),
	)

	ownership, err := s.repo.GetOwnership(ctx, serviceID)
	if err != nil {
		return err
	}
	if !access.CanModifyService(principal, ownership.ProviderID) {
		l.WarnContext(ctx, "Ownership check failed")
		return fmt.Errorf("user %s cannot delete service %s: %w", principal.ID, serviceID, types.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, serviceID); err != nil {
		l.ErrorContext(ctx, "Failed to deactivate service", slog.Any("error", err))
		return err
	}

	l.InfoContext(ctx, "Service deactivated")
	return nil
}

func (s *ServicesServiceImpl) Search(ctx context.Context, filter types.ServiceFilter) ([]types.Service, *types.Pagination, error) {
	l := s.logger.With(slog.String("method", "Search"))

	services, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		return nil, nil, err
	}

	pagination := types.Pagination{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}
	return services, &pagination, nil
}
