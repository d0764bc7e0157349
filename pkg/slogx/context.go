package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithTenant returns a context whose logger is annotated with the effective
// tenant the request operates on. Handlers downstream of tenant resolution
// log with these fields automatically.
func WithTenant(ctx context.Context, tenantUserID string, impersonating bool) context.Context {
	l := FromContext(ctx).With("tenant_user_id", tenantUserID)
	if impersonating {
		l = l.With("impersonating", true)
	}
	return WithContext(ctx, l)
}
