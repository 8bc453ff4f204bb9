// Package middleware provides the JWT auth and admin gates for protected
// routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/ihiteshgupta/learnflow/internal/auth"
	"github.com/ihiteshgupta/learnflow/internal/auth/token"
	dErrors "github.com/ihiteshgupta/learnflow/pkg/domain-errors"
	"github.com/ihiteshgupta/learnflow/pkg/platform/httputil"
	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// Authenticate validates the bearer token and stores the user identity,
// role, and display name claims on the request context.
func Authenticate(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.Subject)
			ctx = requestcontext.WithUserRole(ctx, claims.Role)
			ctx = requestcontext.WithDisplayName(ctx, claims.DisplayName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose role claim is not admin. It must run
// after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestcontext.UserRole(r.Context()) != auth.RoleAdmin {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
