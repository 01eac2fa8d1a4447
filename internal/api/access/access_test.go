package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

func TestCanCreate(t *testing.T) {
	propertyCases := map[string]bool{
		types.RoleLandlord:        true,
		types.RoleAgent:           true,
		types.RoleTenant:          false,
		types.RoleServiceProvider: false,
		types.RoleAdmin:           false,
		"":                        false,
	}
	for role, want := range propertyCases {
		assert.Equal(t, want, CanCreateProperty(role), "property role %q", role)
	}

	serviceCases := map[string]bool{
		types.RoleServiceProvider: true,
		types.RoleLandlord:        false,
		types.RoleAgent:           false,
		types.RoleTenant:          false,
		types.RoleAdmin:           false,
	}
	for role, want := range serviceCases {
		assert.Equal(t, want, CanCreateService(role), "service role %q", role)
	}
}

func TestCanModifyProperty(t *testing.T) {
	landlord := uuid.New()
	agent := uuid.New()
	stranger := uuid.New()

	t.Run("owning landlord allowed", func(t *testing.T) {
		p := types.Principal{ID: landlord, Role: types.RoleLandlord}
		assert.True(t, CanModifyProperty(p, landlord, nil))
	})

	t.Run("assigned agent allowed only when one is set", func(t *testing.T) {
		p := types.Principal{ID: agent, Role: types.RoleAgent}
		assert.True(t, CanModifyProperty(p, landlord, &agent))
		assert.False(t, CanModifyProperty(p, landlord, nil))
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		p := types.Principal{ID: stranger, Role: types.RoleAdmin}
		assert.True(t, CanModifyProperty(p, landlord, &agent))
	})

	t.Run("unrelated principal denied", func(t *testing.T) {
		p := types.Principal{ID: stranger, Role: types.RoleLandlord}
		assert.False(t, CanModifyProperty(p, landlord, &agent))
	})
}

func TestCanModifyService(t *testing.T) {
	provider := uuid.New()
	stranger := uuid.New()

	assert.True(t, CanModifyService(types.Principal{ID: provider, Role: types.RoleServiceProvider}, provider))
	assert.True(t, CanModifyService(types.Principal{ID: stranger, Role: types.RoleAdmin}, provider))
	assert.False(t, CanModifyService(types.Principal{ID: stranger, Role: types.RoleServiceProvider}, provider))
}
