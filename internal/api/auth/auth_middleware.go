package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Define typed context keys
type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

// Authenticate is middleware to validate the JWT carried in the `token`
// cookie (Authorization: Bearer is accepted as a fallback for non-browser
// clients). It resolves a typed principal and stores it on the context.
// It MUST run before any handler that evaluates resource existence or
// ownership: authentication failures take precedence over 404 and 403.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	secretKey := []byte(jwtCfg.SecretKey)
	if len(secretKey) == 0 {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			tokenString := tokenFromRequest(r, jwtCfg.CookieName)
			if tokenString == "" {
				l.WarnContext(ctx, "Missing auth token")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims := &types.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secretKey, nil
			})

			if err != nil {
				l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
				errMsg := "Invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					errMsg = "Token has expired"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			if !token.Valid {
				l.WarnContext(ctx, "Token marked as invalid")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			if jwtCfg.Issuer != "" && claims.Issuer != jwtCfg.Issuer {
				l.WarnContext(ctx, "Token issuer mismatch", slog.String("expected", jwtCfg.Issuer), slog.String("actual", claims.Issuer))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			if _, err := uuid.Parse(claims.UserID); err != nil {
				l.WarnContext(ctx, "Token carries malformed user id", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookieName == "" {
		cookieName = "token"
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
		return headerParts[1]
	}
	return ""
}

// GetUserIDFromContext returns the raw user id set by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRoleFromContext returns the role set by Authenticate.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// GetPrincipalFromContext assembles the typed principal from the claims
// Authenticate stored on the context.
func GetPrincipalFromContext(ctx context.Context) (types.Principal, bool) {
	userIDStr, ok := GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		return types.Principal{}, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return types.Principal{}, false
	}
	role, _ := GetUserRoleFromContext(ctx)
	return types.Principal{ID: userID, Role: role}, true
}

// RequireRole checks that the principal's role is in the allowed set.
// Runs AFTER the Authenticate middleware.
func RequireRole(logger *slog.Logger, allowedRoles ...string) func(next http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role, ok := GetUserRoleFromContext(ctx)
			if !ok {
				logger.ErrorContext(ctx, "Role claim missing from context")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if _, allowed := roleSet[role]; !allowed {
				logger.WarnContext(ctx, "Role check failed", slog.String("role", role), slog.Any("allowed", allowedRoles))
				api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
