package httputil

import (
	"context"
	"net/http"
	"strings"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

// Context keys for the authenticated identity.
const (
	UserKey         contextKey = "user"
	OrganizationKey contextKey = "organization"
)

// TokenAuthenticator resolves a bearer token to the acting user and their
// organization. The organization ID is the tenant filter for every
// subsequent operation on the request.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, *domain.Organization, error)
}

// AuthMiddleware creates bearer-token authentication middleware.
func AuthMiddleware(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			user, org, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, OrganizationKey, org)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. Returns ""
// if the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetUser extracts the authenticated user from context.
func GetUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// GetOrganization extracts the acting user's organization from context.
func GetOrganization(ctx context.Context) *domain.Organization {
	if org, ok := ctx.Value(OrganizationKey).(*domain.Organization); ok {
		return org
	}
	return nil
}
