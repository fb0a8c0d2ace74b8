package auth

import (
	"context"
	"net/http"
	"strings"

	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// RoleResolver loads the current role memberships of a user from the store.
// Resolution happens on every request so membership changes take effect
// immediately.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, userID int64) ([]models.Role, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// Middleware authenticates requests and attaches the resolved principal
type Middleware struct {
	secret   string
	resolver RoleResolver
	logger   *logger.Logger
}

// NewMiddleware creates the authentication middleware
func NewMiddleware(secret string, resolver RoleResolver, log *logger.Logger) *Middleware {
	return &Middleware{
		secret:   secret,
		resolver: resolver,
		logger:   log,
	}
}

// Authenticate rejects requests without a valid bearer token and stores the
// principal with its current roles in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := httpx.RequestID(r.Context())

		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token", requestID)
			return
		}

		claims, err := ParseToken(m.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.logger.Debug("token_rejected", "Failed to validate bearer token", requestID, map[string]interface{}{
				"remote_addr": r.RemoteAddr,
			})
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "invalid token", requestID)
			return
		}

		exists, err := m.resolver.UserExists(r.Context(), claims.UserID)
		if err != nil {
			m.logger.Error("role_resolution_failed", "Failed to look up user", requestID, err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
			return
		}
		if !exists {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "unknown principal", requestID)
			return
		}

		roles, err := m.resolver.ResolveRoles(r.Context(), claims.UserID)
		if err != nil {
			m.logger.Error("role_resolution_failed", "Failed to resolve roles", requestID, err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
			return
		}

		principal := &Principal{
			ID:       claims.UserID,
			Username: claims.Username,
			Roles:    make(map[models.Role]bool, len(roles)),
		}
		for _, role := range roles {
			principal.Roles[role] = true
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
