package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User roles. Role is immutable after registration.
const (
	RoleTenant          = "tenant"
	RoleLandlord        = "landlord"
	RoleAgent           = "agent"
	RoleServiceProvider = "service-provider"
	RoleAdmin           = "admin"
)

// Claims is the custom JWT payload carried in the `token` cookie.
// The key names are part of the client contract.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity resolved from a verified token.
// It is the only representation of a decoded token the rest of the code sees.
type Principal struct {
	ID   uuid.UUID
	Role string
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=tenant landlord agent service-provider"`
	Phone     string `json:"phone"`
}

// UpdateProfileRequest represents the profile update request body.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
}

// ChangePasswordRequest represents the change password request body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}
