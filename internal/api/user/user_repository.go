package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Querier is the subset of pgxpool.Pool the listings need. Narrowing to an
// interface keeps the repository testable against a mocked connection.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepo defines the data access contract for user listings.
type UserRepo interface {
	ListByRole(ctx context.Context, role string) ([]types.User, error)
	ListAll(ctx context.Context) ([]types.User, error)
}

// Ensure implementation satisfies the interface
var _ UserRepo = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	logger *slog.Logger
	db     Querier
}

func NewPostgresUserRepo(db Querier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

const listColumns = `id, first_name, last_name, email, role, phone, avatar, rating, is_verified, created_at, updated_at`

func collectUsers(rows pgx.Rows) ([]types.User, error) {
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		var u types.User
		err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role,
			&u.Phone, &u.Avatar, &u.Rating, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListByRole returns verified users of the given role, newest first.
func (r *PostgresUserRepo) ListByRole(ctx context.Context, role string) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListByRole", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.role", role),
	))
	defer span.End()

	rows, err := r.db.Query(ctx, `
        SELECT `+listColumns+`
        FROM users
        WHERE role = $1 AND is_verified = TRUE
        ORDER BY created_at DESC`, role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing users by role: %w", err)
	}

	users, err := collectUsers(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB scan failed")
		return nil, fmt.Errorf("database error scanning users: %w", err)
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	span.SetStatus(codes.Ok, "users listed")
	return users, nil
}

// ListAll returns every account, newest first, for the admin listing.
func (r *PostgresUserRepo) ListAll(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListAll", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	rows, err := r.db.Query(ctx, `
        SELECT `+listColumns+`
        FROM users
        ORDER BY created_at DESC`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing users: %w", err)
	}

	users, err := collectUsers(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB scan failed")
		return nil, fmt.Errorf("database error scanning users: %w", err)
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	span.SetStatus(codes.Ok, "users listed")
	return users, nil
}
