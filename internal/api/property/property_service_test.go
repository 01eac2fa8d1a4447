package property

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// MockPropertyRepo is a mock implementation of PropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Insert(ctx context.Context, landlordID uuid.UUID, agentID *uuid.UUID, params types.CreatePropertyParams) (*types.Property, error) {
	args := m.Called(ctx, landlordID, agentID, params)
	property, _ := args.Get(0).(*types.Property)
	return property, args.Error(1)
}

func (m *MockPropertyRepo) GetByID(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	args := m.Called(ctx, propertyID)
	property, _ := args.Get(0).(*types.Property)
	return property, args.Error(1)
}

func (m *MockPropertyRepo) GetOwnership(ctx context.Context, propertyID uuid.UUID) (*Ownership, error) {
	args := m.Called(ctx, propertyID)
	ownership, _ := args.Get(0).(*Ownership)
	return ownership, args.Error(1)
}

func (m *MockPropertyRepo) Update(ctx context.Context, propertyID uuid.UUID, params types.UpdatePropertyParams) (*types.Property, error) {
	args := m.Called(ctx, propertyID, params)
	property, _ := args.Get(0).(*types.Property)
	return property, args.Error(1)
}

func (m *MockPropertyRepo) SoftDelete(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockPropertyRepo) Search(ctx context.Context, filter types.PropertyFilter) ([]types.PropertySummary, int, error) {
	args := m.Called(ctx, filter)
	summaries, _ := args.Get(0).([]types.PropertySummary)
	return summaries, args.Int(1), args.Error(2)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPropertyService_Create(t *testing.T) {
	ctx := context.Background()
	params := types.CreatePropertyParams{Name: "Sunset Flats", Type: "apartment"}

	t.Run("tenant cannot create", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		principal := types.Principal{ID: uuid.New(), Role: types.RoleTenant}
		_, err := service.Create(ctx, principal, params)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("landlord creates without agent", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		principal := types.Principal{ID: uuid.New(), Role: types.RoleLandlord}
		created := &types.Property{ID: uuid.New(), LandlordID: principal.ID}
		mockRepo.On("Insert", ctx, principal.ID, (*uuid.UUID)(nil), params).Return(created, nil).Once()

		property, err := service.Create(ctx, principal, params)
		require.NoError(t, err)
		assert.Equal(t, created.ID, property.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("agent creator becomes the assigned agent", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		principal := types.Principal{ID: uuid.New(), Role: types.RoleAgent}
		created := &types.Property{ID: uuid.New(), LandlordID: principal.ID, AgentID: &principal.ID}
		mockRepo.On("Insert", ctx, principal.ID, mock.MatchedBy(func(agentID *uuid.UUID) bool {
			return agentID != nil && *agentID == principal.ID
		}), params).Return(created, nil).Once()

		_, err := service.Create(ctx, principal, params)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestPropertyService_GuardOrdering(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	owner := uuid.New()
	stranger := types.Principal{ID: uuid.New(), Role: types.RoleLandlord}

	t.Run("missing resource reports not found before ownership", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		mockRepo.On("GetOwnership", ctx, propertyID).Return(nil, types.ErrNotFound).Once()

		_, err := service.Update(ctx, stranger, propertyID, types.UpdatePropertyParams{})
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("existing resource owned by someone else reports forbidden", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		mockRepo.On("GetOwnership", ctx, propertyID).
			Return(&Ownership{LandlordID: owner, IsActive: true}, nil).Once()

		_, err := service.Update(ctx, stranger, propertyID, types.UpdatePropertyParams{})
		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("soft deleted property updates as not found", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		mockRepo.On("GetOwnership", ctx, propertyID).
			Return(&Ownership{LandlordID: stranger.ID, IsActive: false}, nil).Once()

		_, err := service.Update(ctx, stranger, propertyID, types.UpdatePropertyParams{})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("assigned agent may update", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		agent := types.Principal{ID: uuid.New(), Role: types.RoleAgent}
		params := types.UpdatePropertyParams{}
		updated := &types.Property{ID: propertyID}
		mockRepo.On("GetOwnership", ctx, propertyID).
			Return(&Ownership{LandlordID: owner, AgentID: &agent.ID, IsActive: true}, nil).Once()
		mockRepo.On("Update", ctx, propertyID, params).Return(updated, nil).Once()

		property, err := service.Update(ctx, agent, propertyID, params)
		require.NoError(t, err)
		assert.Equal(t, propertyID, property.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("admin may delete without ownership", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		admin := types.Principal{ID: uuid.New(), Role: types.RoleAdmin}
		mockRepo.On("GetOwnership", ctx, propertyID).
			Return(&Ownership{LandlordID: owner, IsActive: true}, nil).Once()
		mockRepo.On("SoftDelete", ctx, propertyID).Return(nil).Once()

		err := service.Delete(ctx, admin, propertyID)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repeat delete of inactive property still succeeds for owner", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		ownerPrincipal := types.Principal{ID: owner, Role: types.RoleLandlord}
		mockRepo.On("GetOwnership", ctx, propertyID).
			Return(&Ownership{LandlordID: owner, IsActive: false}, nil).Once()
		mockRepo.On("SoftDelete", ctx, propertyID).Return(nil).Once()

		err := service.Delete(ctx, ownerPrincipal, propertyID)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestPropertyService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("pagination rounds pages up", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		filter := types.PropertyFilter{Page: 1, Limit: 12, Type: "all", City: "all", MaxPrice: 10000000, Sort: SortNewest}
		mockRepo.On("Search", ctx, filter).Return([]types.PropertySummary{}, 25, nil).Once()

		_, pagination, err := service.Search(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 25, pagination.Total)
		assert.Equal(t, 3, pagination.Pages)
		mockRepo.AssertExpectations(t)
	})

	t.Run("page beyond the result range stays empty with a stable total", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		filter := types.PropertyFilter{Page: 9, Limit: 12, Type: "all", City: "all", MaxPrice: 10000000, Sort: SortNewest}
		mockRepo.On("Search", ctx, filter).Return([]types.PropertySummary{}, 25, nil).Once()

		summaries, pagination, err := service.Search(ctx, filter)
		require.NoError(t, err)
		assert.Empty(t, summaries)
		assert.Equal(t, 25, pagination.Total)
		assert.Equal(t, 9, pagination.Page)
		assert.Equal(t, 3, pagination.Pages)
	})

	t.Run("identical filter within TTL served from cache", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		filter := types.PropertyFilter{Page: 2, Limit: 12, Type: "studio", City: "all", MaxPrice: 10000000, Sort: SortNewest}
		summaries := []types.PropertySummary{{ID: uuid.New(), Name: "Cached Flat"}}
		mockRepo.On("Search", ctx, filter).Return(summaries, 1, nil).Once()

		first, _, err := service.Search(ctx, filter)
		require.NoError(t, err)
		second, _, err := service.Search(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		mockRepo.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("mutation flushes the cache", func(t *testing.T) {
		mockRepo := new(MockPropertyRepo)
		service := NewPropertyService(mockRepo, testLogger())

		filter := types.PropertyFilter{Page: 1, Limit: 12, Type: "all", City: "all", MaxPrice: 10000000, Sort: SortNewest}
		mockRepo.On("Search", ctx, filter).Return([]types.PropertySummary{}, 0, nil).Twice()

		_, _, err := service.Search(ctx, filter)
		require.NoError(t, err)

		principal := types.Principal{ID: uuid.New(), Role: types.RoleLandlord}
		created := &types.Property{ID: uuid.New()}
		mockRepo.On("Insert", ctx, principal.ID, (*uuid.UUID)(nil), mock.Anything).Return(created, nil).Once()
		_, err = service.Create(ctx, principal, types.CreatePropertyParams{})
		require.NoError(t, err)

		_, _, err = service.Search(ctx, filter)
		require.NoError(t, err)
		mockRepo.AssertNumberOfCalls(t, "Search", 2)
	})
}
