package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
)

type mockRoleAuthority struct {
	requireAdminFunc func(ctx context.Context, email string) error
}

func (m *mockRoleAuthority) RequireAdmin(ctx context.Context, email string) error {
	if m.requireAdminFunc != nil {
		return m.requireAdminFunc(ctx, email)
	}
	return nil
}

func TestAuthenticated_MissingHeaderIs401(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)
	handler := Authenticated(maker, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("next handler must not run without a token")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthenticated_NonBearerHeaderIs401(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)
	handler := Authenticated(maker, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("next handler must not run")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

// A present-but-invalid token answers 403, not 401. Clients distinguish
// "sign in" from "sign in again" off this split.
func TestAuthenticated_InvalidTokenIs403(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)

	otherMaker := auth.NewTokenMaker("different-secret", time.Hour)
	foreignToken, err := otherMaker.Sign("jordan@example.com")
	if err != nil {
		t.Fatalf("unexpected error signing: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong key", foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticated(maker, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				t.Error("next handler must not run")
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			handler(rec, req, nil)

			if rec.Code != http.StatusForbidden {
				t.Errorf("expected status 403, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticated_ValidTokenAttachesIdentity(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)
	token, err := maker.Sign("jordan@example.com")
	if err != nil {
		t.Fatalf("unexpected error signing: %v", err)
	}

	var gotEmail string
	handler := Authenticated(maker, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotEmail, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotEmail != "jordan@example.com" {
		t.Errorf("expected identity jordan@example.com, got %q", gotEmail)
	}
}

func TestAdminOnly_ForwardsRoleAuthorityError(t *testing.T) {
	roles := &mockRoleAuthority{
		requireAdminFunc: func(ctx context.Context, email string) error {
			return apperrors.UnknownUser(email)
		},
	}
	handler := AdminOnly(roles, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("next handler must not run")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin", nil)
	ctx := context.WithValue(req.Context(), IdentityKey, "ghost@example.com")
	handler(rec, req.WithContext(ctx), nil)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestAdminOnly_AdminPassesThrough(t *testing.T) {
	roles := &mockRoleAuthority{}
	called := false
	handler := AdminOnly(roles, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin", nil)
	ctx := context.WithValue(req.Context(), IdentityKey, "admin@example.com")
	handler(rec, req.WithContext(ctx), nil)

	if !called {
		t.Error("expected next handler to run for admin")
	}
}

func TestAdminOnly_NoIdentityIs401(t *testing.T) {
	handler := AdminOnly(&mockRoleAuthority{}, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("next handler must not run")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin", nil)
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}
