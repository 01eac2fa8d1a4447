package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Ownership is the minimal projection the authorization guard needs.
type Ownership struct {
	ProviderID uuid.UUID
	IsActive   bool
}

// ServiceRepo defines the data access contract for offered services.
type ServiceRepo interface {
	Insert(ctx context.Context, providerID uuid.UUID, params types.CreateServiceParams) (*types.Service, error)
	GetByID(ctx context.Context, serviceID uuid.UUID) (*types.Service, error)
	GetOwnership(ctx context.Context, serviceID uuid.UUID) (*Ownership, error)
	Update(ctx context.Context, serviceID uuid.UUID, params types.UpdateServiceParams) (*types.Service, error)
	SoftDelete(ctx context.Context, serviceID uuid.UUID) error
	Search(ctx context.Context, filter types.ServiceFilter) ([]types.Service, int, error)
}

// Ensure implementation satisfies the interface
var _ ServiceRepo = (*PostgresServiceRepo)(nil)

type PostgresServiceRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresServiceRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresServiceRepo {
	return &PostgresServiceRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const serviceColumns = `
    id, title, category, description, price, price_type, location,
    coverage, availability, experience, qualifications, images,
    service_provider_id, is_active, is_verified, rating, reviews,
    created_at, updated_at`

func scanService(row pgx.Row) (*types.Service, error) {
	var s types.Service
	err := row.Scan(
		&s.ID, &s.Title, &s.Category, &s.Description, &s.Price, &s.PriceType, &s.Location,
		&s.Coverage, &s.Availability, &s.Experience, &s.Qualifications, &s.Images,
		&s.ProviderID, &s.IsActive, &s.IsVerified, &s.Rating, &s.Reviews,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func (r *PostgresServiceRepo) Insert(ctx context.Context, providerID uuid.UUID, params types.CreateServiceParams) (*types.Service, error) {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.String("service.provider_id", providerID.String()),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO services (
            title, category, description, price, price_type, location,
            coverage, availability, experience, qualifications, images,
            service_provider_id
        ) VALUES (
            $1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'fixed'), $6,
            $7, $8, $9, $10, $11,
            $12
        )
        RETURNING `+serviceColumns,
		params.Title, params.Category, params.Description, params.Price, params.PriceType, params.Location,
		emptyIfNil(params.Coverage), emptyIfNil(params.Availability), params.Experience,
		emptyIfNil(params.Qualifications), emptyIfNil(params.Images),
		providerID,
	)

	service, err := scanService(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating service: %w", err)
	}

	span.SetAttributes(attribute.String("service.id", service.ID.String()))
	span.SetStatus(codes.Ok, "service created")
	return service, nil
}

// GetByID loads an active service with its provider projection.
func (r *PostgresServiceRepo) GetByID(ctx context.Context, serviceID uuid.UUID) (*types.Service, error) {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.String("service.id", serviceID.String()),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `
        SELECT
            s.id, s.title, s.category, s.description, s.price, s.price_type, s.location,
            s.coverage, s.availability, s.experience, s.qualifications, s.images,
            s.service_provider_id, s.is_active, s.is_verified, s.rating, s.reviews,
            s.created_at, s.updated_at,
            u.id, u.first_name, u.last_name, u.email, u.phone, u.avatar, u.rating
        FROM services s
        JOIN users u ON u.id = s.service_provider_id
        WHERE s.id = $1 AND s.is_active = TRUE`, serviceID)

	var s types.Service
	var provider types.UserRef
	err := row.Scan(
		&s.ID, &s.Title, &s.Category, &s.Description, &s.Price, &s.PriceType, &s.Location,
		&s.Coverage, &s.Availability, &s.Experience, &s.Qualifications, &s.Images,
		&s.ProviderID, &s.IsActive, &s.IsVerified, &s.Rating, &s.Reviews,
		&s.CreatedAt, &s.UpdatedAt,
		&provider.ID, &provider.FirstName, &provider.LastName, &provider.Email,
		&provider.Phone, &provider.Avatar, &provider.Rating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "service not found")
			return nil, fmt.Errorf("service %s: %w", serviceID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching service: %w", err)
	}

	s.Provider = &provider
	span.SetStatus(codes.Ok, "service found")
	return &s, nil
}

// GetOwnership resolves the owner regardless of active state so delete
// stays idempotent.
func (r *PostgresServiceRepo) GetOwnership(ctx context.Context, serviceID uuid.UUID) (*Ownership, error) {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "GetOwnership", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.String("service.id", serviceID.String()),
	))
	defer span.End()

	var o Ownership
	err := r.pgpool.QueryRow(ctx,
		`SELECT service_provider_id, is_active FROM services WHERE id = $1`, serviceID).
		Scan(&o.ProviderID, &o.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "service not found")
			return nil, fmt.Errorf("service %s: %w", serviceID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching ownership: %w", err)
	}

	span.SetStatus(codes.Ok, "ownership found")
	return &o, nil
}

func (r *PostgresServiceRepo) Update(ctx context.Context, serviceID uuid.UUID, params types.UpdateServiceParams) (*types.Service, error) {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.String("service.id", serviceID.String()),
	))
	defer span.End()

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.Title != nil {
		addClause("title", *params.Title)
	}
	if params.Category != nil {
		addClause("category", *params.Category)
	}
	if params.Description != nil {
		addClause("description", *params.Description)
	}
	if params.Price != nil {
		addClause("price", *params.Price)
	}
	if params.PriceType != nil {
		addClause("price_type", *params.PriceType)
	}
	if params.Location != nil {
		addClause("location", *params.Location)
	}
	if params.Coverage != nil {
		addClause("coverage", *params.Coverage)
	}
	if params.Availability != nil {
		addClause("availability", *params.Availability)
	}
	if params.Experience != nil {
		addClause("experience", *params.Experience)
	}
	if params.Qualifications != nil {
		addClause("qualifications", *params.Qualifications)
	}
	if params.Images != nil {
		addClause("images", *params.Images)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, serviceID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE services SET %s WHERE id = $%d AND is_active = TRUE RETURNING %s`,
		strings.Join(setClauses, ", "), argID, serviceColumns)
	args = append(args, serviceID)

	service, err := scanService(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "service not found")
			return nil, fmt.Errorf("service %s: %w", serviceID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating service: %w", err)
	}

	span.SetStatus(codes.Ok, "service updated")
	return service, nil
}

// SoftDelete deactivates the service. Idempotent.
func (r *PostgresServiceRepo) SoftDelete(ctx context.Context, serviceID uuid.UUID) error {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "SoftDelete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.String("service.id", serviceID.String()),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`UPDATE services SET is_active = FALSE, updated_at = now() WHERE id = $1`, serviceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return fmt.Errorf("database error deactivating service: %w", err)
	}

	span.SetStatus(codes.Ok, "service deactivated")
	return nil
}

// Search pages active services newest first with optional category and
// location filters.
func (r *PostgresServiceRepo) Search(ctx context.Context, filter types.ServiceFilter) ([]types.Service, int, error) {
	ctx, span := otel.Tracer("ServiceRepo").Start(ctx, "Search", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "services"),
		attribute.Int("search.page", filter.Page),
	))
	defer span.End()

	conditions := []string{"s.is_active = TRUE"}
	var args []interface{}
	argID := 1

	if filter.Category != "" && filter.Category != "all" {
		conditions = append(conditions, fmt.Sprintf("s.category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.Location != "" && filter.Location != "all" {
		conditions = append(conditions, fmt.Sprintf("s.location ILIKE '%%' || $%d || '%%'", argID))
		args = append(args, filter.Location)
		argID++
	}
	whereClause := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
        SELECT
            s.id, s.title, s.category, s.description, s.price, s.price_type, s.location,
            s.coverage, s.availability, s.experience, s.qualifications, s.images,
            s.service_provider_id, s.is_active, s.is_verified, s.rating, s.reviews,
            s.created_at, s.updated_at,
            u.id, u.first_name, u.last_name, u.email, u.phone, u.avatar, u.rating
        FROM services s
        JOIN users u ON u.id = s.service_provider_id
        WHERE %s
        ORDER BY s.created_at DESC
        LIMIT $%d OFFSET $%d`, whereClause, argID, argID+1)
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pgpool.Query(ctx, query, pageArgs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, 0, fmt.Errorf("database error searching services: %w", err)
	}
	defer rows.Close()

	services := []types.Service{}
	for rows.Next() {
		var s types.Service
		var provider types.UserRef
		err := rows.Scan(
			&s.ID, &s.Title, &s.Category, &s.Description, &s.Price, &s.PriceType, &s.Location,
			&s.Coverage, &s.Availability, &s.Experience, &s.Qualifications, &s.Images,
			&s.ProviderID, &s.IsActive, &s.IsVerified, &s.Rating, &s.Reviews,
			&s.CreatedAt, &s.UpdatedAt,
			&provider.ID, &provider.FirstName, &provider.LastName, &provider.Email,
			&provider.Phone, &provider.Avatar, &provider.Rating,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, 0, fmt.Errorf("database error scanning service: %w", err)
		}
		s.Provider = &provider
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows failed")
		return nil, 0, fmt.Errorf("database error reading services: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM services s WHERE %s`, whereClause)
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB count failed")
		return nil, 0, fmt.Errorf("database error counting services: %w", err)
	}

	span.SetAttributes(attribute.Int("search.total", total))
	span.SetStatus(codes.Ok, "search complete")
	return services, total, nil
}
