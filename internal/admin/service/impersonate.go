package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ragops/rag-admin/internal/admin/metrics"
)

// maxOverrideBodyPeek bounds how much of a request body the override lookup
// will buffer while searching for a tenantUserId field.
const maxOverrideBodyPeek = 1 << 20 // 1 MiB

// EffectiveTenant decides which tenant a request operates on. The override is
// whatever tenant id the caller supplied (empty when none). Only admins may
// act on another tenant; a non-admin supplying any override other than their
// own id is rejected outright rather than silently ignored.
func EffectiveTenant(authUserID string, isAdmin bool, override string) (tenantUserID string, impersonating bool, err error) {
	override = strings.TrimSpace(override)

	if override == "" || override == authUserID {
		return authUserID, false, nil
	}
	if !isAdmin {
		metrics.RecordImpersonation("rejected")
		return "", false, ErrImpersonationForbidden
	}

	metrics.RecordImpersonation("accepted")
	return override, true, nil
}

// OverrideFromRequest extracts a tenant override from the request, checking
// sources in precedence order: the X-Tenant-Id header, the X-Impersonate-User
// header, the tenantUserId query parameter, then a tenantUserId field in a
// JSON body. The first non-empty value wins.
//
// Peeking at the body buffers it and restores r.Body so downstream handlers
// can still decode it.
func OverrideFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Tenant-Id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Impersonate-User")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("tenantUserId")); v != "" {
		return v
	}
	return overrideFromBody(r)
}

func overrideFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxOverrideBodyPeek))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var body struct {
		TenantUserID string `json:"tenantUserId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.TenantUserID)
}
