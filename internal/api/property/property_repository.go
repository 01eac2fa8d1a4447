package property

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
	LandlordID uuid.UUID
	AgentID    *uuid.UUID
	IsActive   bool
}

// PropertyRepo defines the data access contract for properties.
type PropertyRepo interface {
	Insert(ctx context.Context, landlordID uuid.UUID, agentID *uuid.UUID, params types.CreatePropertyParams) (*types.Property, error)
	GetByID(ctx context.Context, propertyID uuid.UUID) (*types.Property, error)
	GetOwnership(ctx context.Context, propertyID uuid.UUID) (*Ownership, error)
	Update(ctx context.Context, propertyID uuid.UUID, params types.UpdatePropertyParams) (*types.Property, error)
	SoftDelete(ctx context.Context, propertyID uuid.UUID) error
	Search(ctx context.Context, filter types.PropertyFilter) ([]types.PropertySummary, int, error)
}

// Ensure implementation satisfies the interface
var _ PropertyRepo = (*PostgresPropertyRepo)(nil)

type PostgresPropertyRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresPropertyRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresPropertyRepo {
	return &PostgresPropertyRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const propertyColumns = `
    id, name, type, unit_type, description,
    address, city, state, country,
    rent, deposit, currency,
    bedrooms, bathrooms, area, size_unit,
    amenities, furnishing, rules, images,
    availability, status, landlord_id, agent_id,
    is_active, is_verified, is_featured, rating, reviews,
    created_at, updated_at`

const propertyColumnsPrefixed = `
    p.id, p.name, p.type, p.unit_type, p.description,
    p.address, p.city, p.state, p.country,
    p.rent, p.deposit, p.currency,
    p.bedrooms, p.bathrooms, p.area, p.size_unit,
    p.amenities, p.furnishing, p.rules, p.images,
    p.availability, p.status, p.landlord_id, p.agent_id,
    p.is_active, p.is_verified, p.is_featured, p.rating, p.reviews,
    p.created_at, p.updated_at`

func scanProperty(row pgx.Row) (*types.Property, error) {
	var p types.Property
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.UnitType, &p.Description,
		&p.Location.Address, &p.Location.City, &p.Location.State, &p.Location.Country,
		&p.Pricing.Rent, &p.Pricing.Deposit, &p.Pricing.Currency,
		&p.Size.Bedrooms, &p.Size.Bathrooms, &p.Size.Area, &p.Size.Unit,
		&p.Amenities, &p.Furnishing, &p.Rules, &p.Images,
		&p.Availability, &p.Status, &p.LandlordID, &p.AgentID,
		&p.IsActive, &p.IsVerified, &p.IsFeatured, &p.Rating, &p.Reviews,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert creates the property in a single statement so a row can never
// exist without its owner fields.
func (r *PostgresPropertyRepo) Insert(ctx context.Context, landlordID uuid.UUID, agentID *uuid.UUID, params types.CreatePropertyParams) (*types.Property, error) {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.landlord_id", landlordID.String()),
	))
	defer span.End()

	amenities := params.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	rules := params.Rules
	if rules == nil {
		rules = []string{}
	}
	images := params.Images
	if images == nil {
		images = []string{}
	}

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO properties (
            name, type, unit_type, description,
            address, city, state, country,
            rent, deposit, currency,
            bedrooms, bathrooms, area, size_unit,
            amenities, furnishing, rules, images,
            availability, landlord_id, agent_id
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6, $7, COALESCE(NULLIF($8, ''), 'Kenya'),
            $9, $10, COALESCE(NULLIF($11, ''), 'KSh'),
            $12, $13, $14, COALESCE(NULLIF($15, ''), 'sqft'),
            $16, $17, $18, $19,
            $20, $21, $22
        )
        RETURNING `+propertyColumns,
		params.Name, params.Type, params.UnitType, params.Description,
		params.Location.Address, params.Location.City, params.Location.State, params.Location.Country,
		params.Pricing.Rent, params.Pricing.Deposit, params.Pricing.Currency,
		params.Size.Bedrooms, params.Size.Bathrooms, params.Size.Area, params.Size.Unit,
		amenities, params.Furnishing, rules, images,
		params.Availability, landlordID, agentID,
	)

	property, err := scanProperty(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating property: %w", err)
	}

	span.SetAttributes(attribute.String("property.id", property.ID.String()))
	span.SetStatus(codes.Ok, "property created")
	return property, nil
}

// GetByID loads a property with its landlord and agent projections. Rows
// that were soft deleted are treated as absent.
func (r *PostgresPropertyRepo) GetByID(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.id", propertyID.String()),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `
        SELECT `+propertyColumnsPrefixed+`,
            l.id, l.first_name, l.last_name, l.email, l.phone, l.avatar, l.rating,
            a.id, a.first_name, a.last_name, a.email, a.phone, a.avatar, a.rating
        FROM properties p
        JOIN users l ON l.id = p.landlord_id
        LEFT JOIN users a ON a.id = p.agent_id
        WHERE p.id = $1 AND p.is_active = TRUE`, propertyID)

	var p types.Property
	var landlord types.UserRef
	var agentID *uuid.UUID
	var agentFirstName, agentLastName, agentEmail, agentPhone, agentAvatar *string
	var agentRating *float64
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.UnitType, &p.Description,
		&p.Location.Address, &p.Location.City, &p.Location.State, &p.Location.Country,
		&p.Pricing.Rent, &p.Pricing.Deposit, &p.Pricing.Currency,
		&p.Size.Bedrooms, &p.Size.Bathrooms, &p.Size.Area, &p.Size.Unit,
		&p.Amenities, &p.Furnishing, &p.Rules, &p.Images,
		&p.Availability, &p.Status, &p.LandlordID, &p.AgentID,
		&p.IsActive, &p.IsVerified, &p.IsFeatured, &p.Rating, &p.Reviews,
		&p.CreatedAt, &p.UpdatedAt,
		&landlord.ID, &landlord.FirstName, &landlord.LastName, &landlord.Email,
		&landlord.Phone, &landlord.Avatar, &landlord.Rating,
		&agentID, &agentFirstName, &agentLastName, &agentEmail, &agentPhone, &agentAvatar, &agentRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "property not found")
			return nil, fmt.Errorf("property %s: %w", propertyID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching property: %w", err)
	}

	p.Landlord = &landlord
	if agentID != nil {
		agent := types.UserRef{ID: *agentID}
		if agentFirstName != nil {
			agent.FirstName = *agentFirstName
		}
		if agentLastName != nil {
			agent.LastName = *agentLastName
		}
		if agentEmail != nil {
			agent.Email = *agentEmail
		}
		agent.Phone = agentPhone
		agent.Avatar = agentAvatar
		if agentRating != nil {
			agent.Rating = *agentRating
		}
		p.Agent = &agent
	}

	span.SetStatus(codes.Ok, "property found")
	return &p, nil
}

// GetOwnership fetches just the owner columns so the guard can run without
// loading the whole row. Soft deleted rows still resolve here: delete has
// to stay idempotent and must not 404 a second call before the guard ran.
func (r *PostgresPropertyRepo) GetOwnership(ctx context.Context, propertyID uuid.UUID) (*Ownership, error) {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "GetOwnership", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.id", propertyID.String()),
	))
	defer span.End()

	var o Ownership
	err := r.pgpool.QueryRow(ctx,
		`SELECT landlord_id, agent_id, is_active FROM properties WHERE id = $1`, propertyID).
		Scan(&o.LandlordID, &o.AgentID, &o.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "property not found")
			return nil, fmt.Errorf("property %s: %w", propertyID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching ownership: %w", err)
	}

	span.SetStatus(codes.Ok, "ownership found")
	return &o, nil
}

// Update applies a partial update built from the provided fields only.
func (r *PostgresPropertyRepo) Update(ctx context.Context, propertyID uuid.UUID, params types.UpdatePropertyParams) (*types.Property, error) {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.id", propertyID.String()),
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

	if params.Name != nil {
		addClause("name", *params.Name)
	}
	if params.Type != nil {
		addClause("type", *params.Type)
	}
	if params.UnitType != nil {
		addClause("unit_type", *params.UnitType)
	}
	if params.Description != nil {
		addClause("description", *params.Description)
	}
	if params.Address != nil {
		addClause("address", *params.Address)
	}
	if params.City != nil {
		addClause("city", *params.City)
	}
	if params.State != nil {
		addClause("state", *params.State)
	}
	if params.Country != nil {
		addClause("country", *params.Country)
	}
	if params.Rent != nil {
		addClause("rent", *params.Rent)
	}
	if params.Deposit != nil {
		addClause("deposit", *params.Deposit)
	}
	if params.Currency != nil {
		addClause("currency", *params.Currency)
	}
	if params.Bedrooms != nil {
		addClause("bedrooms", *params.Bedrooms)
	}
	if params.Bathrooms != nil {
		addClause("bathrooms", *params.Bathrooms)
	}
	if params.Area != nil {
		addClause("area", *params.Area)
	}
	if params.SizeUnit != nil {
		addClause("size_unit", *params.SizeUnit)
	}
	if params.Amenities != nil {
		addClause("amenities", *params.Amenities)
	}
	if params.Furnishing != nil {
		addClause("furnishing", *params.Furnishing)
	}
	if params.Rules != nil {
		addClause("rules", *params.Rules)
	}
	if params.Images != nil {
		addClause("images", *params.Images)
	}
	if params.Availability != nil {
		addClause("availability", *params.Availability)
	}
	if params.Status != nil {
		addClause("status", *params.Status)
	}
	if params.AgentID != nil {
		addClause("agent_id", *params.AgentID)
	}
	if params.IsFeatured != nil {
		addClause("is_featured", *params.IsFeatured)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, propertyID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE properties SET %s WHERE id = $%d AND is_active = TRUE RETURNING %s`,
		strings.Join(setClauses, ", "), argID, propertyColumns)
	args = append(args, propertyID)

	property, err := scanProperty(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "property not found")
			return nil, fmt.Errorf("property %s: %w", propertyID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating property: %w", err)
	}

	span.SetStatus(codes.Ok, "property updated")
	return property, nil
}

// SoftDelete deactivates the listing. Idempotent: already inactive rows
// are not an error, and no other columns change.
func (r *PostgresPropertyRepo) SoftDelete(ctx context.Context, propertyID uuid.UUID) error {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "SoftDelete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("property.id", propertyID.String()),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`UPDATE properties SET is_active = FALSE, updated_at = now() WHERE id = $1`, propertyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return fmt.Errorf("database error deactivating property: %w", err)
	}

	span.SetStatus(codes.Ok, "property deactivated")
	return nil
}

// Search runs the compiled filter twice, once for the page of summaries
// and once for the unwindowed count.
func (r *PostgresPropertyRepo) Search(ctx context.Context, filter types.PropertyFilter) ([]types.PropertySummary, int, error) {
	ctx, span := otel.Tracer("PropertyRepo").Start(ctx, "Search", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "properties"),
		attribute.String("search.sort", filter.Sort),
		attribute.Int("search.page", filter.Page),
	))
	defer span.End()

	whereClause, args, orderBy := compileSearch(filter)

	query := fmt.Sprintf(`
        SELECT id, name, type, address, city, rent, images, bedrooms, bathrooms, area, rating, is_featured
        FROM properties
        WHERE %s
        ORDER BY %s
        LIMIT $%d OFFSET $%d`,
		whereClause, orderBy, len(args)+1, len(args)+2)
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pgpool.Query(ctx, query, pageArgs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, 0, fmt.Errorf("database error searching properties: %w", err)
	}
	defer rows.Close()

	summaries := []types.PropertySummary{}
	for rows.Next() {
		var s types.PropertySummary
		var address, city string
		var images []string
		err := rows.Scan(&s.ID, &s.Name, &s.Type, &address, &city, &s.Price, &images,
			&s.Bedrooms, &s.Bathrooms, &s.Area, &s.Rating, &s.Featured)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, 0, fmt.Errorf("database error scanning property summary: %w", err)
		}
		s.Location = address + ", " + city
		if len(images) > 0 {
			s.Image = images[0]
		} else {
			s.Image = types.PlaceholderPropertyImage
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows failed")
		return nil, 0, fmt.Errorf("database error reading property summaries: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM properties WHERE %s`, whereClause)
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB count failed")
		return nil, 0, fmt.Errorf("database error counting properties: %w", err)
	}

	span.SetAttributes(attribute.Int("search.total", total))
	span.SetStatus(codes.Ok, "search complete")
	return summaries, total, nil
}
