package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListByRole(ctx context.Context, role string) ([]types.DirectoryEntry, error) {
	args := m.Called(ctx, role)
	entries, _ := args.Get(0).([]types.DirectoryEntry)
	return entries, args.Error(1)
}

func (m *MockUserService) ListAll(ctx context.Context) ([]types.AdminUserEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]types.AdminUserEntry)
	return entries, args.Error(1)
}

func TestListByRoleHandler(t *testing.T) {
	t.Run("invalid role returns 400", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, testLogger())

		mockService.On("ListByRole", mock.Anything, "wizard").Return(nil, types.ErrValidation).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users?role=wizard", nil)
		rr := httptest.NewRecorder()
		handler.ListByRole(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid role", resp["message"])
	})

	t.Run("valid role returns directory entries", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, testLogger())

		entries := []types.DirectoryEntry{
			{ID: uuid.New(), Name: "Ana Silva", Rating: 4.5, Verified: true},
		}
		mockService.On("ListByRole", mock.Anything, types.RoleAgent).Return(entries, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users?role=agent", nil)
		rr := httptest.NewRecorder()
		handler.ListByRole(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Users []types.DirectoryEntry `json:"users"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Users, 1)
		assert.Equal(t, "Ana Silva", resp.Users[0].Name)
		mockService.AssertExpectations(t)
	})
}

func TestListAllHandler(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewHandlerImpl(mockService, testLogger())

	entries := []types.AdminUserEntry{
		{ID: uuid.New(), FirstName: "Ana", Email: "ana@example.com", Role: types.RoleLandlord, Status: "active"},
	}
	mockService.On("ListAll", mock.Anything).Return(entries, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/allusers", nil)
	rr := httptest.NewRecorder()
	handler.ListAll(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Users []types.AdminUserEntry `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	mockService.AssertExpectations(t)
}
