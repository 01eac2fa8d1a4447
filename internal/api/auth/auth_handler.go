package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-rental-marketplace/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Handler defines the HTTP surface for account management.
type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UpdatePassword(w http.ResponseWriter, r *http.Request)
	DeleteAccount(w http.ResponseWriter, r *http.Request)
}

// Ensure implementation satisfies the interface
var _ Handler = (*HandlerImpl)(nil)

// HandlerImpl struct holds dependencies for auth handlers.
type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
	cfg         *config.Config
}

// NewHandlerImpl creates a new auth handler instance.
func NewHandlerImpl(authService AuthService, cfg *config.Config, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
		cfg:         cfg,
	}
}

// setSessionCookie writes the signed token as an httpOnly cookie. The cookie
// is only marked Secure outside development so local plain-HTTP clients keep
// working.
func (h *HandlerImpl) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.JWT.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Mode == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *HandlerImpl) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.JWT.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Mode == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a user account and signs the client in via session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.RegisterRequest true "Registration details"
// @Success      201 {object} types.User
// @Failure      400 {object} map[string]string
// @Router       /auth/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := api.ValidateStruct(req); fieldErrors != nil {
		l.WarnContext(ctx, "Validation failed", slog.Any("fields", fieldErrors))
		api.ErrorResponse(w, r, http.StatusBadRequest, api.FormatValidationErrors(fieldErrors))
		return
	}

	user, token, err := h.authService.Register(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.Get().RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "User already exists")
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.setSessionCookie(w, token)
	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body types.LoginRequest true "Credentials"
// @Success      200 {object} types.User
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := api.ValidateStruct(req); fieldErrors != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.FormatValidationErrors(fieldErrors))
		return
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.Get().LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	h.setSessionCookie(w, token)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GetMe returns the authenticated user's profile.
func (h *HandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetMe"))

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authService.GetUserByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// UpdateProfile applies a partial profile update for the authenticated user.
func (h *HandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req types.UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(ctx, principal.ID, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UpdatePassword changes the authenticated user's password after verifying
// the current one.
func (h *HandlerImpl) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePassword"))

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req types.ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := api.ValidateStruct(req); fieldErrors != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.FormatValidationErrors(fieldErrors))
		return
	}

	err := h.authService.ChangePassword(ctx, principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			l.ErrorContext(ctx, "Failed to change password", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// DeleteAccount removes the authenticated user's account and ends the
// session.
func (h *HandlerImpl) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteAccount"))

	principal, ok := GetPrincipalFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authService.DeleteAccount(ctx, principal.ID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete account", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.clearSessionCookie(w)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
