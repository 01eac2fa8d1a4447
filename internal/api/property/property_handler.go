package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-rental-marketplace/internal/api"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/auth"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Handler defines the HTTP surface for property listings.
type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Ensure implementation satisfies the interface
var _ Handler = (*HandlerImpl)(nil)

// HandlerImpl struct holds dependencies for property handlers.
type HandlerImpl struct {
	propertyService PropertyService
	logger          *slog.Logger
}

// NewHandlerImpl creates a new property handler instance.
func NewHandlerImpl(propertyService PropertyService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		propertyService: propertyService,
		logger:          logger,
	}
}

// List godoc
// @Summary      Search property listings
// @Description  Public paginated search over active, available properties
// @Tags         properties
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        type query string false "Property type or 'all'"
// @Param        city query string false "City or 'all'"
// @Param        minPrice query number false "Minimum rent"
// @Param        maxPrice query number false "Maximum rent"
// @Param        bedrooms query int false "Minimum bedrooms"
// @Param        search query string false "Free text search"
// @Param        sort query string false "newest, price-low, price-high, rating or bedrooms"
// @Success      200 {object} map[string]interface{}
// @Router       /properties [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	filter := ParsePropertyFilter(r.URL.Query())
	summaries, pagination, err := h.propertyService.Search(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"properties": summaries,
		"pagination": pagination,
	})
}

// Create godoc
// @Summary      Create a property listing
// @Description  Landlords and agents only; accepts JSON or multipart form
// @Tags         properties
// @Accept       json
// @Produce      json
// @Success      201 {object} types.Property
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /properties [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var params types.CreatePropertyParams
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		params, err = parseMultipartProperty(r)
	} else {
		err = api.DecodeJSONBody(w, r, &params)
	}
	if err != nil {
		l.WarnContext(ctx, "Failed to parse request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := api.ValidateStruct(params); fieldErrors != nil {
		l.WarnContext(ctx, "Validation failed", slog.Any("fields", fieldErrors))
		api.ErrorResponse(w, r, http.StatusBadRequest, api.FormatValidationErrors(fieldErrors))
		return
	}

	property, err := h.propertyService.Create(ctx, principal, params)
	if err != nil {
		if errors.Is(err, types.ErrForbidden) {
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
			return
		}
		l.ErrorContext(ctx, "Failed to create property", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create property")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"message":  "Property created successfully",
		"property": property,
	})
}

// Get godoc
// @Summary      Fetch a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {object} types.Property
// @Failure      404 {object} map[string]string
// @Router       /properties/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Get"))

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
		return
	}

	property, err := h.propertyService.Get(ctx, propertyID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch property", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch property")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, property)
}

// Update godoc
// @Summary      Update a property
// @Description  Owning landlord, assigned agent or admin only
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {object} types.Property
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /properties/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Update"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
		return
	}

	var params types.UpdatePropertyParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	property, err := h.propertyService.Update(ctx, principal, propertyID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
		default:
			l.ErrorContext(ctx, "Failed to update property", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update property")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"message":  "Property updated successfully",
		"property": property,
	})
}

// Delete godoc
// @Summary      Deactivate a property
// @Description  Soft delete, idempotent. Owning landlord, assigned agent or admin only
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /properties/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Delete"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
		return
	}

	if err := h.propertyService.Delete(ctx, principal, propertyID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Property not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
		default:
			l.ErrorContext(ctx, "Failed to delete property", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete property")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

const maxMultipartMemory = 10 << 20

// parseMultipartProperty reads the browser form encoding: nested objects
// arrive as dotted keys (location.address), array fields as JSON-encoded
// strings, and images as file parts. Uploaded files are not stored; each
// one maps to a deterministic placeholder URL.
func parseMultipartProperty(r *http.Request) (types.CreatePropertyParams, error) {
	var params types.CreatePropertyParams

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return params, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	form := r.MultipartForm

	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}
	floatValue := func(key string) float64 {
		v, _ := strconv.ParseFloat(value(key), 64)
		return v
	}
	intValue := func(key string) int {
		v, _ := strconv.Atoi(value(key))
		return v
	}
	jsonArray := func(key string) []string {
		raw := value(key)
		if raw == "" {
			return []string{}
		}
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			// Fallback for clients that send a bare comma list.
			for _, part := range strings.Split(raw, ",") {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
		}
		return out
	}

	params.Name = value("name")
	params.Type = value("type")
	params.UnitType = value("unitType")
	params.Description = value("description")
	params.Location = types.PropertyLocation{
		Address: value("location.address"),
		City:    value("location.city"),
		State:   value("location.state"),
		Country: value("location.country"),
	}
	params.Pricing = types.PropertyPricing{
		Rent:     floatValue("pricing.rent"),
		Deposit:  floatValue("pricing.deposit"),
		Currency: value("pricing.currency"),
	}
	params.Size = types.PropertySize{
		Bedrooms:  intValue("size.bedrooms"),
		Bathrooms: intValue("size.bathrooms"),
		Area:      floatValue("size.area"),
		Unit:      value("size.unit"),
	}
	params.Amenities = jsonArray("amenities")
	params.Rules = jsonArray("rules")
	params.Furnishing = value("furnishing")

	if v := value("availability"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			params.Availability = t
		} else if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.Availability = t
		}
	}
	if params.Availability.IsZero() {
		params.Availability = time.Now()
	}

	params.Images = placeholderImageURLs(form.File["images"])
	return params, nil
}

func placeholderImageURLs(files []*multipart.FileHeader) []string {
	urls := make([]string, 0, len(files))
	ts := time.Now().UnixMilli()
	for i := range files {
		urls = append(urls, fmt.Sprintf("/api/placeholder/property-image-%d-%d", ts, i))
	}
	return urls
}
