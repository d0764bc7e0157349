package service

import (
	"fmt"
	"path"
	"strings"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/pkg/idx"
)

// maxUsernameFragment caps how much of the username ends up in a derived
// resource id so the id stays well under the 60 character limit.
const maxUsernameFragment = 16

// Provisioner derives per-tenant resource bundles from static base endpoints.
// It performs no I/O: callers persist the result themselves, which keeps
// provisioning trivially idempotent and safe to re-run.
type Provisioner struct {
	DatabaseBaseURI  string
	BotBaseURL       string
	SchedulerBaseURL string
	ScraperBaseURL   string
	VectorStoreRoot  string
}

// Provision returns the full resource bundle for a tenant. When
// existingResourceID is non-empty it is reused verbatim, so re-provisioning
// an already-assigned tenant regenerates the derived fields without ever
// changing the resource id.
func (p *Provisioner) Provision(userID, username, existingResourceID string) (domain.ResourceBundle, error) {
	if p.DatabaseBaseURI == "" || p.BotBaseURL == "" || p.SchedulerBaseURL == "" ||
		p.ScraperBaseURL == "" || p.VectorStoreRoot == "" {
		return domain.ResourceBundle{}, fmt.Errorf("%w: provisioner endpoints not configured", ErrProvisioning)
	}
	if userID == "" {
		return domain.ResourceBundle{}, fmt.Errorf("%w: missing user id", ErrProvisioning)
	}

	resourceID := existingResourceID
	if resourceID == "" {
		resourceID = deriveResourceID(username)
	}
	if !domain.ResourceIDPattern.MatchString(resourceID) {
		return domain.ResourceBundle{}, fmt.Errorf("%w: invalid resource id %q", ErrProvisioning, resourceID)
	}

	// Every derived field is namespaced by the resource id so two tenants
	// can never be handed the same database, endpoint or path.
	return domain.ResourceBundle{
		ResourceID:        resourceID,
		DatabaseURI:       strings.TrimRight(p.DatabaseBaseURI, "/") + "/" + resourceID,
		BotEndpoint:       tenantURL(p.BotBaseURL, resourceID),
		SchedulerEndpoint: tenantURL(p.SchedulerBaseURL, resourceID),
		ScraperEndpoint:   tenantURL(p.ScraperBaseURL, resourceID),
		VectorStorePath:   path.Join(p.VectorStoreRoot, resourceID),
	}, nil
}

// tenantURL scopes a base service URL to one tenant. Job and chat paths are
// appended to this by the dispatchers, giving /tenants/<id>/chat and friends.
func tenantURL(base, resourceID string) string {
	return strings.TrimRight(base, "/") + "/tenants/" + resourceID
}

// deriveResourceID builds "tenant-<fragment>-<ulid>" where fragment is a
// sanitised slice of the username. The ULID suffix guarantees uniqueness even
// when two users share a username prefix.
func deriveResourceID(username string) string {
	fragment := sanitizeFragment(username)
	if fragment == "" {
		fragment = "user"
	}
	return "tenant-" + fragment + "-" + strings.ToLower(idx.New().String())
}

func sanitizeFragment(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if b.Len() >= maxUsernameFragment {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
