package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyClaims ctxKey = "claims" // full jwtx.Claims for role checks

	// CtxKeyTenantUserID is the effective tenant the request operates on,
	// set by the tenant-resolution middleware. It equals the authenticated
	// user id unless an admin impersonation override was accepted.
	CtxKeyTenantUserID ctxKey = "tenant_user_id"

	// CtxKeyImpersonating is true when the effective tenant differs from
	// the authenticated user.
	CtxKeyImpersonating ctxKey = "impersonating"
)

// UserIDFromContext returns the authenticated user id, or "" if the request
// was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// TenantUserIDFromContext returns the effective tenant user id set by the
// tenant-resolution middleware, or "" when resolution has not run.
func TenantUserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTenantUserID).(string); ok {
		return v
	}
	return ""
}

// ImpersonatingFromContext reports whether the request acts on another
// tenant's resources.
func ImpersonatingFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(CtxKeyImpersonating).(bool)
	return v
}
