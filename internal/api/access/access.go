// Package access holds the resource-ownership predicates gating every
// property and service mutation. The predicates are pure: they never touch
// the store and never mutate their inputs. Handlers enforce the failure
// order around them: authentication (401), then resource existence (404),
// then these checks (403).
package access

import (
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// CanCreateProperty reports whether a role may create properties.
func CanCreateProperty(role string) bool {
	return role == types.RoleLandlord || role == types.RoleAgent
}

// CanCreateService reports whether a role may create services.
func CanCreateService(role string) bool {
	return role == types.RoleServiceProvider
}

// CanModifyProperty reports whether the principal may update or soft-delete
// a property. Permitted for the owning landlord, the assigned agent (when
// one is set), and admins.
func CanModifyProperty(p types.Principal, landlord uuid.UUID, agent *uuid.UUID) bool {
	if p.Role == types.RoleAdmin {
		return true
	}
	if p.ID == landlord {
		return true
	}
	return agent != nil && p.ID == *agent
}

// CanModifyService reports whether the principal may update or soft-delete
// a service. Permitted for the owning provider and admins.
func CanModifyService(p types.Principal, provider uuid.UUID) bool {
	return p.Role == types.RoleAdmin || p.ID == provider
}
