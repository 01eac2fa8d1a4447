package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// MockUserRepo is a mock implementation of UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role string) ([]types.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]types.User)
	return users, args.Error(1)
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]types.User)
	return users, args.Error(1)
}

func TestUserService_ListByRole(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown role is a validation error without a repo call", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger())

		for _, role := range []string{"tenant", "admin", "wizard", ""} {
			_, err := service.ListByRole(ctx, role)
			assert.ErrorIs(t, err, types.ErrValidation, "role %q", role)
		}
		mockRepo.AssertNotCalled(t, "ListByRole", mock.Anything, mock.Anything)
	})

	t.Run("landlord entries carry directory placeholders", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger())

		avatar := "https://cdn.example.com/ana.jpg"
		users := []types.User{
			{ID: uuid.New(), FirstName: "Ana", LastName: "Silva", Rating: 4.5, IsVerified: true, Avatar: &avatar, Role: types.RoleLandlord},
			{ID: uuid.New(), FirstName: "Ben", LastName: "Otieno", Rating: 3.8, IsVerified: true, Role: types.RoleLandlord},
		}
		mockRepo.On("ListByRole", ctx, types.RoleLandlord).Return(users, nil).Once()

		entries, err := service.ListByRole(ctx, types.RoleLandlord)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "Ana Silva", entries[0].Name)
		assert.Equal(t, avatar, entries[0].Image)
		assert.Equal(t, 0, entries[0].Properties)
		assert.Equal(t, "N/A", entries[0].Experience)
		assert.Equal(t, 0, entries[0].Reviews)
		assert.Equal(t, "Service provider", entries[0].Service)

		assert.Equal(t, "/api/placeholder/100/100", entries[1].Image)
		mockRepo.AssertExpectations(t)
	})

	t.Run("service placeholder is set for every role", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger())

		users := []types.User{
			{ID: uuid.New(), FirstName: "Cia", LastName: "Wanjiru", Role: types.RoleServiceProvider, IsVerified: true},
		}
		mockRepo.On("ListByRole", ctx, types.RoleServiceProvider).Return(users, nil).Once()

		entries, err := service.ListByRole(ctx, types.RoleServiceProvider)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Service provider", entries[0].Service)
	})
}

func TestUserService_ListAll(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, testLogger())

	joined := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	phone := "0712345678"
	users := []types.User{
		{ID: uuid.New(), FirstName: "Ana", LastName: "Silva", Email: "ana@example.com",
			Role: types.RoleLandlord, Phone: &phone, CreatedAt: joined, IsVerified: true},
	}
	mockRepo.On("ListAll", ctx).Return(users, nil).Once()

	entries, err := service.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ana@example.com", entries[0].Email)
	assert.Equal(t, phone, entries[0].Phone)
	assert.Equal(t, joined, entries[0].JoinDate)
	assert.Equal(t, "active", entries[0].Status)
	mockRepo.AssertExpectations(t)
}
