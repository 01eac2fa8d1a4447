package types

import (
	"time"

	"github.com/google/uuid"
)

// Service price types.
const (
	PriceTypeFixed      = "fixed"
	PriceTypeHourly     = "hourly"
	PriceTypeNegotiable = "negotiable"
)

// Service is an offered service owned by exactly one provider.
// The provider reference is immutable after creation.
type Service struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	PriceType      string    `json:"priceType"`
	Location       string    `json:"location"`
	Coverage       []string  `json:"coverage"`
	Availability   []string  `json:"availability"`
	Experience     string    `json:"experience"`
	Qualifications []string  `json:"qualifications"`
	Images         []string  `json:"images"`
	ProviderID     uuid.UUID `json:"serviceProviderId"`
	Provider       *UserRef  `json:"serviceProvider,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	Rating         float64   `json:"rating"`
	Reviews        int       `json:"reviews"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateServiceParams carries validated input for service creation.
type CreateServiceParams struct {
	Title          string   `json:"title" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Price          float64  `json:"price" validate:"required,gte=0"`
	PriceType      string   `json:"priceType" validate:"omitempty,oneof=fixed hourly negotiable"`
	Location       string   `json:"location" validate:"required"`
	Coverage       []string `json:"coverage"`
	Availability   []string `json:"availability"`
	Experience     string   `json:"experience" validate:"required"`
	Qualifications []string `json:"qualifications"`
	Images         []string `json:"images"`
}

// UpdateServiceParams defines the fields allowed for service updates.
type UpdateServiceParams struct {
	Title          *string   `json:"title,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	PriceType      *string   `json:"priceType,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Coverage       *[]string `json:"coverage,omitempty"`
	Availability   *[]string `json:"availability,omitempty"`
	Experience     *string   `json:"experience,omitempty"`
	Qualifications *[]string `json:"qualifications,omitempty"`
	Images         *[]string `json:"images,omitempty"`
}

// ServiceFilter is the compiled search plan for the services listing.
// Sort is fixed to newest-first on this endpoint.
type ServiceFilter struct {
	Page     int
	Limit    int
	Category string
	Location string
}
