package types

import (
	"time"

	"github.com/google/uuid"
)

// Property statuses.
const (
	PropertyStatusAvailable   = "available"
	PropertyStatusOccupied    = "occupied"
	PropertyStatusMaintenance = "maintenance"
	PropertyStatusUnavailable = "unavailable"
)

// PropertyTypes is the closed set of accepted property kinds.
var PropertyTypes = []string{
	"apartment", "maisonette", "bedsitter", "studio", "bungalow",
	"townhouse", "office", "shop", "warehouse", "land",
}

// PlaceholderPropertyImage is served when a property has no uploaded images.
const PlaceholderPropertyImage = "/api/placeholder/400/300"

// PropertyLocation is the nested location block of a property.
type PropertyLocation struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country"`
}

// PropertyPricing is the nested pricing block of a property.
type PropertyPricing struct {
	Rent     float64 `json:"rent" validate:"required,gt=0"`
	Deposit  float64 `json:"deposit" validate:"required,gt=0"`
	Currency string  `json:"currency"`
}

// PropertySize is the nested size block of a property.
type PropertySize struct {
	Bedrooms  int     `json:"bedrooms" validate:"required,gt=0"`
	Bathrooms int     `json:"bathrooms" validate:"required,gt=0"`
	Area      float64 `json:"area" validate:"required,gt=0"`
	Unit      string  `json:"unit"`
}

// Property is a rentable unit owned by exactly one landlord and
// optionally managed by one agent.
type Property struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	UnitType     string           `json:"unitType"`
	Description  string           `json:"description"`
	Location     PropertyLocation `json:"location"`
	Pricing      PropertyPricing  `json:"pricing"`
	Size         PropertySize     `json:"size"`
	Amenities    []string         `json:"amenities"`
	Furnishing   string           `json:"furnishing"`
	Rules        []string         `json:"rules"`
	Images       []string         `json:"images"`
	Availability time.Time        `json:"availability"`
	Status       string           `json:"status"`
	LandlordID   uuid.UUID        `json:"landlordId"`
	AgentID      *uuid.UUID       `json:"agentId,omitempty"`
	Landlord     *UserRef         `json:"landlord,omitempty"`
	Agent        *UserRef         `json:"agent,omitempty"`
	IsActive     bool             `json:"isActive"`
	IsVerified   bool             `json:"isVerified"`
	IsFeatured   bool             `json:"isFeatured"`
	Rating       float64          `json:"rating"`
	Reviews      int              `json:"reviews"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// CreatePropertyParams carries validated input for property creation.
// Owner fields are filled by the service from the acting principal, never
// from the request body.
type CreatePropertyParams struct {
	Name         string           `json:"name" validate:"required"`
	Type         string           `json:"type" validate:"required,oneof=apartment maisonette bedsitter studio bungalow townhouse office shop warehouse land"`
	UnitType     string           `json:"unitType" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	Location     PropertyLocation `json:"location"`
	Pricing      PropertyPricing  `json:"pricing"`
	Size         PropertySize     `json:"size"`
	Amenities    []string         `json:"amenities"`
	Furnishing   string           `json:"furnishing" validate:"required,oneof=unfurnished semi-furnished furnished"`
	Rules        []string         `json:"rules"`
	Images       []string         `json:"images"`
	Availability time.Time        `json:"availability"`
}

// UpdatePropertyParams defines the fields allowed for property updates.
// Pointers distinguish "not provided" from zero values; concurrent updates
// are last-write-wins by design.
type UpdatePropertyParams struct {
	Name         *string    `json:"name,omitempty"`
	Type         *string    `json:"type,omitempty"`
	UnitType     *string    `json:"unitType,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Address      *string    `json:"address,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Rent         *float64   `json:"rent,omitempty"`
	Deposit      *float64   `json:"deposit,omitempty"`
	Currency     *string    `json:"currency,omitempty"`
	Bedrooms     *int       `json:"bedrooms,omitempty"`
	Bathrooms    *int       `json:"bathrooms,omitempty"`
	Area         *float64   `json:"area,omitempty"`
	SizeUnit     *string    `json:"sizeUnit,omitempty"`
	Amenities    *[]string  `json:"amenities,omitempty"`
	Furnishing   *string    `json:"furnishing,omitempty"`
	Rules        *[]string  `json:"rules,omitempty"`
	Images       *[]string  `json:"images,omitempty"`
	Availability *time.Time `json:"availability,omitempty"`
	Status       *string    `json:"status,omitempty"`
	AgentID      *uuid.UUID `json:"agentId,omitempty"`
	IsFeatured   *bool      `json:"isFeatured,omitempty"`
}

// PropertySummary is the projected shape returned by the property search.
// Location is composed as "address, city".
type PropertySummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Bedrooms  int       `json:"bedrooms"`
	Bathrooms int       `json:"bathrooms"`
	Area      float64   `json:"area"`
	Rating    float64   `json:"rating"`
	Featured  bool      `json:"featured"`
}

// PropertyFilter is the compiled search plan for the property listing.
type PropertyFilter struct {
	Page     int
	Limit    int
	Type     string
	City     string
	MinPrice float64
	MaxPrice float64
	Bedrooms int
	Search   string
	Sort     string
}

// Pagination is the page window metadata returned with every listing.
// Total counts all rows matching the filter, ignoring the page window.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
