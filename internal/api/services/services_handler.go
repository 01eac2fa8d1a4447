package services

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

const maxMultipartMemory = 10 << 20

// Handler defines the HTTP surface for offered services.
type Handler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Ensure implementation satisfies the interface
var _ Handler = (*HandlerImpl)(nil)

// HandlerImpl struct holds dependencies for services handlers.
type HandlerImpl struct {
	servicesService ServicesService
	logger          *slog.Logger
}

// NewHandlerImpl creates a new services handler instance.
func NewHandlerImpl(servicesService ServicesService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		servicesService: servicesService,
		logger:          logger,
	}
}

// List godoc
// @Summary      List offered services
// @Description  Authenticated paginated listing, newest first
// @Tags         services
// @Produce      json
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Param        category query string false "Category or 'all'"
// @Param        location query string false "Location substring"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Router       /services [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	filter := ParseServiceFilter(r.URL.Query())
	services, pagination, err := h.servicesService.Search(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch services")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"services":   services,
		"pagination": pagination,
	})
}

// Create godoc
// @Summary      Create a service
// @Description  Service providers only
// @Tags         services
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Success      201 {object} types.Service
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /services [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var params types.CreateServiceParams
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		params, err = parseMultipartService(r)
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

	service, err := h.servicesService.Create(ctx, principal, params)
	if err != nil {
		if errors.Is(err, types.ErrForbidden) {
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
			return
		}
		l.ErrorContext(ctx, "Failed to create service", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create service")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"message": "Service created successfully",
		"service": service,
	})
}

// Get godoc
// @Summary      Fetch a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} types.Service
// @Failure      404 {object} map[string]string
// @Router       /services/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Get"))

	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		return
	}

	service, err := h.servicesService.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch service", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch service")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, service)
}

// Update godoc
// @Summary      Update a service
// @Description  Owning provider or admin only
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} types.Service
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /services/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Update"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		return
	}

	var params types.UpdateServiceParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	service, err := h.servicesService.Update(ctx, principal, serviceID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
		default:
			l.ErrorContext(ctx, "Failed to update service", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update service")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"message": "Service updated successfully",
		"service": service,
	})
}

// Delete godoc
// @Summary      Deactivate a service
// @Description  Soft delete, idempotent. Owning provider or admin only
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /services/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Delete"))

	principal, ok := auth.GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		return
	}

	if err := h.servicesService.Delete(ctx, principal, serviceID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Service not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
		default:
			l.ErrorContext(ctx, "Failed to delete service", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete service")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}

// parseMultipartService maps a multipart form onto CreateServiceParams.
// Array fields arrive JSON-encoded; uploaded images are swapped for
// placeholder URLs until real storage lands.
func parseMultipartService(r *http.Request) (types.CreateServiceParams, error) {
	var params types.CreateServiceParams

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

	params.Title = value("title")
	params.Category = value("category")
	params.Description = value("description")
	params.Price, _ = strconv.ParseFloat(value("price"), 64)
	params.PriceType = value("priceType")
	params.Location = value("location")
	params.Experience = value("experience")
	params.Coverage = jsonArray("coverage")
	params.Availability = jsonArray("availability")
	params.Qualifications = jsonArray("qualifications")
	params.Images = placeholderServiceImageURLs(form.File["images"])

	return params, nil
}

func placeholderServiceImageURLs(files []*multipart.FileHeader) []string {
	urls := make([]string, 0, len(files))
	ts := time.Now().UnixMilli()
	for i := range files {
		urls = append(urls, fmt.Sprintf("/api/placeholder/service-image-%d-%d", ts, i))
	}
	return urls
}
