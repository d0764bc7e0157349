package httpx

import "net/http"

// RequireAdmin rejects requests whose verified claims do not carry the admin
// role. Must run after AuthnMiddleware.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if !claims.IsAdmin() {
				WriteError(w, http.StatusForbidden, "administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
