package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

type stubResolver struct {
	user *domain.AuthUser
	err  error
}

func (s *stubResolver) ResolveToken(_ context.Context, _ string) (*domain.AuthUser, error) {
	return s.user, s.err
}

func okHandler(t *testing.T, wantUserID int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("expected user on request context")
		} else if user.ID != wantUserID {
			t.Errorf("expected user id %d, got %d", wantUserID, user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	activeUser := &domain.AuthUser{ID: 7, Role: domain.RoleCustomer, Status: domain.UserStatusActive}

	tests := []struct {
		name       string
		header     string
		resolver   *stubResolver
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer good-token",
			resolver:   &stubResolver{user: activeUser},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			resolver:   &stubResolver{user: activeUser},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			resolver:   &stubResolver{user: activeUser},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "resolver rejects token",
			header:     "Bearer bad-token",
			resolver:   &stubResolver{err: apperrors.NewUnauthorizedError("invalid or expired token")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "banned user",
			header:     "Bearer good-token",
			resolver:   &stubResolver{user: &domain.AuthUser{ID: 7, Role: domain.RoleCustomer, Status: domain.UserStatusBanned}},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(tt.resolver)(okHandler(t, 7))

			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *domain.AuthUser
		roles      []domain.Role
		wantStatus int
	}{
		{
			name:       "role allowed",
			user:       &domain.AuthUser{ID: 1, Role: domain.RoleVendor},
			roles:      []domain.Role{domain.RoleVendor},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role denied",
			user:       &domain.AuthUser{ID: 1, Role: domain.RoleCustomer},
			roles:      []domain.Role{domain.RoleAdmin},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "super admin always passes",
			user:       &domain.AuthUser{ID: 1, Role: domain.RoleSuperAdmin},
			roles:      []domain.Role{domain.RoleVendor},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no identity on context",
			user:       nil,
			roles:      []domain.Role{domain.RoleAdmin},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.roles...)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.user != nil {
				req = req.WithContext(ContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
