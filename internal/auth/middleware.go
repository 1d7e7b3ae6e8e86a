package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"omegashop/internal/domain"
)

type contextKey struct{}

var userKey contextKey

// UserFromContext returns the authenticated identity set by RequireAuth.
func UserFromContext(ctx context.Context) (*domain.AuthUser, bool) {
	user, ok := ctx.Value(userKey).(*domain.AuthUser)
	return user, ok
}

// ContextWithUser is exported for tests and internal callers that bypass the
// HTTP middleware.
func ContextWithUser(ctx context.Context, user *domain.AuthUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

type TokenResolver interface {
	ResolveToken(ctx context.Context, raw string) (*domain.AuthUser, error)
}

// RequireAuth extracts the bearer token, resolves it to a user and stores the
// identity on the request context. Banned users are rejected outright.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			user, err := resolver.ResolveToken(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if user.Status == domain.UserStatusBanned {
				writeAuthError(w, http.StatusForbidden, "account banned")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireRole allows only the named roles through. super_admin always passes,
// mirroring the role hierarchy: it outranks every other role.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles)+1)
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	allowed[domain.RoleSuperAdmin] = struct{}{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status), "message": message})
}
