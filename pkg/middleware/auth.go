package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"docportal/pkg/auth"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
)

const IdentityKey contextKey = "identity_email"

// RoleAuthority decides whether a verified identity may perform admin
// operations. A missing user record must surface as a distinct error, never
// as a silent non-admin.
type RoleAuthority interface {
	RequireAdmin(ctx context.Context, email string) error
}

// Authenticated verifies the bearer token and attaches the caller's email to
// the request context. No token at all is 401; a present-but-invalid token is
// 403. Clients use the split to decide between signing in and re-signing in.
func Authenticated(maker *auth.TokenMaker, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			_ = httputil.WriteError(w, apperrors.Unauthorized("UnAuthorized Access"))
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			_ = httputil.WriteError(w, apperrors.Unauthorized("UnAuthorized Access"))
			return
		}

		claims, err := maker.Verify(tokenString)
		if err != nil {
			_ = httputil.WriteError(w, apperrors.InvalidToken("Forbidden Access"))
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, claims.Email)
		next(w, r.WithContext(ctx), ps)
	}
}

// AdminOnly gates an already-authenticated route on the caller's stored role.
func AdminOnly(roles RoleAuthority, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email, ok := IdentityFromContext(r.Context())
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("UnAuthorized Access"))
			return
		}
		if err := roles.RequireAdmin(r.Context(), email); err != nil {
			_ = httputil.WriteError(w, err)
			return
		}
		next(w, r, ps)
	}
}

func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(IdentityKey).(string)
	return email, ok && email != ""
}
