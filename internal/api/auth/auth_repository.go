package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// AuthRepo defines the data access contract for user accounts.
type AuthRepo interface {
	CreateUser(ctx context.Context, params types.RegisterRequest, passwordHash string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Ensure implementation satisfies the interface
var _ AuthRepo = (*PostgresAuthRepo)(nil)

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const userColumns = `id, first_name, last_name, email, password_hash, role, phone, avatar, rating, is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Phone, &u.Avatar, &u.Rating, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, params types.RegisterRequest, passwordHash string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.email", params.Email),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO users (first_name, last_name, email, password_hash, role, phone)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
        RETURNING `+userColumns,
		params.FirstName, params.LastName, params.Email, passwordHash, params.Role, params.Phone,
	)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "duplicate email")
			return nil, fmt.Errorf("user with email %s: %w", params.Email, types.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "user created")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "user not found")
			return nil, fmt.Errorf("user with email %s: %w", email, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "user found")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "user found")
	return user, nil
}

// UpdateProfile rewrites the name fields and, when provided, phone and
// avatar. Empty optional fields are left untouched.
func (r *PostgresAuthRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
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

	addClause("first_name", params.FirstName)
	addClause("last_name", params.LastName)
	if params.Phone != "" {
		addClause("phone", params.Phone)
	}
	if params.Avatar != "" {
		addClause("avatar", params.Avatar)
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, userColumns)
	args = append(args, userID)

	row := r.pgpool.QueryRow(ctx, query, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating profile: %w", err)
	}

	span.SetStatus(codes.Ok, "profile updated")
	return user, nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdatePassword", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newPasswordHash, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "user not found")
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "password updated")
	return nil
}

func (r *PostgresAuthRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "DeleteUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "user not found")
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "user deleted")
	return nil
}
