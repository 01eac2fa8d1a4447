package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-rental-marketplace/internal/api"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Handler defines the HTTP surface for user listings.
type Handler interface {
	ListByRole(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
}

// Ensure implementation satisfies the interface
var _ Handler = (*HandlerImpl)(nil)

// HandlerImpl struct holds dependencies for user handlers.
type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user handler instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// ListByRole godoc
// @Summary      List verified professionals by role
// @Description  Public directory of landlords, agents or service providers
// @Tags         users
// @Produce      json
// @Param        role query string true "landlord, agent or service-provider"
// @Success      200 {array} types.DirectoryEntry
// @Failure      400 {object} map[string]string
// @Router       /users [get]
func (h *HandlerImpl) ListByRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListByRole"))

	role := r.URL.Query().Get("role")
	entries, err := h.userService.ListByRole(ctx, role)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid role")
			return
		}
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"users": entries})
}

// ListAll godoc
// @Summary      List all accounts
// @Description  Admin only
// @Tags         users
// @Produce      json
// @Success      200 {array} types.AdminUserEntry
// @Failure      401 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /allusers [get]
func (h *HandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListAll"))

	entries, err := h.userService.ListAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"users": entries})
}
