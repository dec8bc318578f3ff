package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"couple-space-backend/internal/models"

	"github.com/rs/zerolog/log"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticator resolves a bearer token to the current principal
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// AuthMiddleware creates a middleware for JWT authentication
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			principal, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				if models.KindOf(err) == models.KindInternal {
					log.Error().Err(err).Msg("Failed to authenticate request")
					respondError(w, "internal server error", http.StatusInternalServerError)
					return
				}
				respondError(w, "Could not validate credentials", http.StatusUnauthorized)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal stores the principal in ctx
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(models.Principal)
	return principal, ok
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
