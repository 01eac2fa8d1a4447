package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "role",
		"phone", "avatar", "rating", "is_verified", "created_at", "updated_at",
	})
}

func TestPostgresUserRepo_ListByRole(t *testing.T) {
	ctx := context.Background()

	t.Run("filters on role and verification", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPostgresUserRepo(mockPool, testLogger())

		now := time.Now()
		phone := "0712345678"
		rows := userRows().
			AddRow(uuid.New(), "Ana", "Silva", "ana@example.com", types.RoleLandlord,
				&phone, (*string)(nil), 4.5, true, now, now).
			AddRow(uuid.New(), "Ben", "Otieno", "ben@example.com", types.RoleLandlord,
				(*string)(nil), (*string)(nil), 3.8, true, now, now)

		mockPool.ExpectQuery(`SELECT (.+) FROM users\s+WHERE role = \$1 AND is_verified = TRUE`).
			WithArgs(types.RoleLandlord).
			WillReturnRows(rows)

		users, err := repo.ListByRole(ctx, types.RoleLandlord)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Ana", users[0].FirstName)
		require.NotNil(t, users[0].Phone)
		assert.Equal(t, phone, *users[0].Phone)
		assert.Nil(t, users[1].Phone)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPostgresUserRepo(mockPool, testLogger())

		mockPool.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs(types.RoleAgent).
			WillReturnError(errors.New("connection reset"))

		_, err = repo.ListByRole(ctx, types.RoleAgent)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing users by role")
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresUserRepo_ListAll(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresUserRepo(mockPool, testLogger())

	now := time.Now()
	rows := userRows().
		AddRow(uuid.New(), "Ana", "Silva", "ana@example.com", types.RoleLandlord,
			(*string)(nil), (*string)(nil), 0.0, false, now, now)

	mockPool.ExpectQuery(`SELECT (.+) FROM users\s+ORDER BY created_at DESC`).
		WillReturnRows(rows)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.False(t, users[0].IsVerified)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
