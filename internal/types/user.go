package types

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered marketplace user of any role.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed.
	Role         string    `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	Avatar       *string   `json:"avatar,omitempty"`
	Rating       float64   `json:"rating"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the owner projection embedded in properties and services.
type UserRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Rating    float64   `json:"rating"`
}

// DirectoryEntry is the shape served by the role-scoped user listing.
// Metric fields not tracked in the data model default to placeholders.
type DirectoryEntry struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Properties int       `json:"properties"`
	Rating     float64   `json:"rating"`
	Image      string    `json:"image"`
	Experience string    `json:"experience"`
	Service    string    `json:"service"`
	Reviews    int       `json:"reviews"`
	Verified   bool      `json:"verified"`
}

// AdminUserEntry is the shape served by the admin all-users listing.
type AdminUserEntry struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone"`
	Avatar     string    `json:"avatar"`
	IsVerified bool      `json:"isVerified"`
	JoinDate   time.Time `json:"joinDate"`
	Status     string    `json:"status"`
}
