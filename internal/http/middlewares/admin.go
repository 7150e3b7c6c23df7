package middlewares

import (
	"net/http"

	"github.com/myglobyx/globyx-api/internal/http/errors"
)

// =================================================================================
// ADMIN MIDDLEWARE
// =================================================================================

// RequireAdmin valida contra la allow-list de admins EN CADA REQUEST.
// El claim is_admin del token es solo informativo: sacar un email de la
// lista revoca el acceso admin sin esperar a que venza el token.
// Debe usarse después de RequireAuth.
//
// Sin claims => 401. Con claims pero fuera de la lista => 403.
func RequireAdmin(isAdmin func(email string) bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("no claims in context"))
				return
			}
			if !isAdmin(cl.Identity()) {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("admin required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
