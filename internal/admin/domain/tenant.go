package domain

import (
	"regexp"
	"time"
)

// ResourceIDPattern constrains resource identifiers: 6-60 characters drawn
// from letters, digits, underscore and hyphen. Once assigned the identifier
// is immutable.
var ResourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,60}$`)

// ResourceBundle holds the per-tenant infrastructure assignments. A tenant is
// fully provisioned only when every field is non-empty.
type ResourceBundle struct {
	ResourceID        string
	DatabaseURI       string
	BotEndpoint       string
	SchedulerEndpoint string
	ScraperEndpoint   string
	VectorStorePath   string
}

// FullyProvisioned reports whether all six resource fields are populated.
func (b ResourceBundle) FullyProvisioned() bool {
	return b.ResourceID != "" &&
		b.DatabaseURI != "" &&
		b.BotEndpoint != "" &&
		b.SchedulerEndpoint != "" &&
		b.ScraperEndpoint != "" &&
		b.VectorStorePath != ""
}

// TenantContext is the resolved view of a tenant handed to request handlers
// and job dispatchers. It is what the tenant cache stores.
type TenantContext struct {
	UserID    string
	Username  string
	Email     string
	Role      string
	Active    bool
	Resources ResourceBundle
	UpdatedAt time.Time
}
