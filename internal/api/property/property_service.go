package property

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-rental-marketplace/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/access"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// PropertyService defines the business logic contract for listings.
type PropertyService interface {
	Create(ctx context.Context, principal types.Principal, params types.CreatePropertyParams) (*types.Property, error)
	Get(ctx context.Context, propertyID uuid.UUID) (*types.Property, error)
	Update(ctx context.Context, principal types.Principal, propertyID uuid.UUID, params types.UpdatePropertyParams) (*types.Property, error)
	Delete(ctx context.Context, principal types.Principal, propertyID uuid.UUID) error
	Search(ctx context.Context, filter types.PropertyFilter) ([]types.PropertySummary, *types.Pagination, error)
}

// Ensure implementation satisfies the interface
var _ PropertyService = (*PropertyServiceImpl)(nil)

// PropertyServiceImpl enforces the ownership guard and caches hot search
// pages in front of PropertyRepo.
type PropertyServiceImpl struct {
	logger      *slog.Logger
	repo        PropertyRepo
	searchCache *cache.Cache
}

type cachedSearch struct {
	summaries  []types.PropertySummary
	pagination types.Pagination
}

// NewPropertyService creates a new property service instance.
func NewPropertyService(repo PropertyRepo, logger *slog.Logger) *PropertyServiceImpl {
	return &PropertyServiceImpl{
		logger:      logger,
		repo:        repo,
		searchCache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

// Create persists a new listing for the acting principal. Landlords own
// what they create; agents both own and manage it, so the created row has
// agent set to the creator.
func (s *PropertyServiceImpl) Create(ctx context.Context, principal types.Principal, params types.CreatePropertyParams) (*types.Property, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("userID", principal.ID.String()))

	if !access.CanCreateProperty(principal.Role) {
		l.WarnContext(ctx, "Role not allowed to create properties", slog.String("role", principal.Role))
		return nil, fmt.Errorf("role %q cannot create properties: %w", principal.Role, types.ErrForbidden)
	}

	var agentID *uuid.UUID
	if principal.Role == types.RoleAgent {
		id := principal.ID
		agentID = &id
	}

	property, err := s.repo.Insert(ctx, principal.ID, agentID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create property", slog.Any("error", err))
		return nil, err
	}

	s.searchCache.Flush()
	l.InfoContext(ctx, "Property created", slog.String("propertyID", property.ID.String()))
	return property, nil
}

func (s *PropertyServiceImpl) Get(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	return s.repo.GetByID(ctx, propertyID)
}

// Update runs the ownership guard before touching the row: existence is
// checked first so callers without any claim on the listing still learn
// whether it exists, then ownership, then the write.
func (s *PropertyServiceImpl) Update(ctx context.Context, principal types.Principal, propertyID uuid.UUID, params types.UpdatePropertyParams) (*types.Property, error) {
	l := s.logger.With(
		slog.String("method", "Update"),
		slog.String("propertyID", propertyID.String()),
		slog.String("userID", principal.ID.String()),
	)

	ownership, err := s.repo.GetOwnership(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !ownership.IsActive {
		return nil, fmt.Errorf("property %s: %w", propertyID, types.ErrNotFound)
	}
	if !access.CanModifyProperty(principal, ownership.LandlordID, ownership.AgentID) {
		l.WarnContext(ctx, "Ownership check failed")
		return nil, fmt.Errorf("user %s cannot modify property %s: %w", principal.ID, propertyID, types.ErrForbidden)
	}

	property, err := s.repo.Update(ctx, propertyID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update property", slog.Any("error", err))
		return nil, err
	}

	s.searchCache.Flush()
	l.InfoContext(ctx, "Property updated")
	return property, nil
}

// Delete soft deletes the listing after the same guard as Update. A repeat
// delete of an already inactive listing succeeds without further effect.
func (s *PropertyServiceImpl) Delete(ctx context.Context, principal types.Principal, propertyID uuid.UUID) error {
	l := s.logger.With(
		slog.String("method", "Delete"),
		slog.String("propertyID", propertyID.String()),
		slog.String("userID", principal.ID.String()),
	)

	ownership, err := s.repo.GetOwnership(ctx, propertyID)
	if err != nil {
		return err
	}
	if !access.CanModifyProperty(principal, ownership.LandlordID, ownership.AgentID) {
		l.WarnContext(ctx, "Ownership check failed")
		return fmt.Errorf("user %s cannot delete property %s: %w", principal.ID, propertyID, types.ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, propertyID); err != nil {
		l.ErrorContext(ctx, "Failed to deactivate property", slog.Any("error", err))
		return err
	}

	s.searchCache.Flush()
	l.InfoContext(ctx, "Property deactivated")
	return nil
}

// Search serves the public listing. Identical filters within the cache TTL
// are answered from memory; any mutation flushes the cache so staleness is
// bounded by the TTL only between unrelated writers.
func (s *PropertyServiceImpl) Search(ctx context.Context, filter types.PropertyFilter) ([]types.PropertySummary, *types.Pagination, error) {
	l := s.logger.With(slog.String("method", "Search"))
	start := time.Now()

	cacheKey := fmt.Sprintf("%d|%d|%s|%s|%g|%g|%d|%s|%s",
		filter.Page, filter.Limit, filter.Type, filter.City,
		filter.MinPrice, filter.MaxPrice, filter.Bedrooms, filter.Search, filter.Sort)

	if cached, found := s.searchCache.Get(cacheKey); found {
		hit := cached.(cachedSearch)
		metrics.Get().PropertySearchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cache_hit", true)))
		return hit.summaries, &hit.pagination, nil
	}

	summaries, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", "property_search")))
		return nil, nil, err
	}

	pagination := types.Pagination{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}

	s.searchCache.Set(cacheKey, cachedSearch{summaries: summaries, pagination: pagination}, cache.DefaultExpiration)

	m := metrics.Get()
	m.PropertySearchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cache_hit", false)))
	m.PropertySearchDurationSeconds.Record(ctx, time.Since(start).Seconds())

	return summaries, &pagination, nil
}
