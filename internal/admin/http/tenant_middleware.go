package http

import (
	"context"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
	"github.com/ragops/rag-admin/pkg/slogx"
)

// TenantMiddleware decides which tenant the request operates on and injects
// it into the context. Must run after httpx.AuthnMiddleware. Non-admins
// supplying a tenant override are rejected here, before any handler runs.
func TenantMiddleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := httpx.ClaimsFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			override := service.OverrideFromRequest(r)
			tenantUserID, impersonating, err := service.EffectiveTenant(claims.Subject, claims.IsAdmin(), override)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, httpx.CtxKeyTenantUserID, tenantUserID)
			ctx = context.WithValue(ctx, httpx.CtxKeyImpersonating, impersonating)
			ctx = slogx.WithTenant(ctx, tenantUserID, impersonating)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
