package http

import (
	"errors"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/pkg/httpx"
	"github.com/ragops/rag-admin/pkg/slogx"
)

// writeServiceError maps service-layer errors onto HTTP responses. Anything
// unrecognised becomes a 500 with a generic body; the real error only goes to
// the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &conflict):
		httpx.WriteFieldError(w, http.StatusConflict, conflict.Field+" already exists", conflict.Field)
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrAccountInactive):
		httpx.WriteError(w, http.StatusForbidden, "account is deactivated")
	case errors.Is(err, service.ErrImpersonationForbidden):
		httpx.WriteError(w, http.StatusForbidden, "tenant override requires administrator access")
	case errors.Is(err, service.ErrSelfDeletion):
		httpx.WriteError(w, http.StatusForbidden, "cannot delete your own account")
	case errors.Is(err, service.ErrTenantNotFound), errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrStoreTimeout):
		w.Header().Set("Retry-After", "1")
		httpx.WriteError(w, http.StatusServiceUnavailable, "store timed out, retry shortly")
	case errors.Is(err, service.ErrUpstreamTimeout):
		httpx.WriteError(w, http.StatusGatewayTimeout, "upstream service timed out")
	case errors.Is(err, service.ErrProvisioning):
		httpx.WriteError(w, http.StatusInternalServerError, "resource provisioning failed")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
