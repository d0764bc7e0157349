package http

import (
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
)

// ResourceBundleResponse mirrors domain.ResourceBundle on the wire.
type ResourceBundleResponse struct {
	ResourceID        string `json:"resourceId"`
	DatabaseURI       string `json:"databaseUri"`
	BotEndpoint       string `json:"botEndpoint"`
	SchedulerEndpoint string `json:"schedulerEndpoint"`
	ScraperEndpoint   string `json:"scraperEndpoint"`
	VectorStorePath   string `json:"vectorStorePath"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Username  string                 `json:"username"`
	Email     string                 `json:"email"`
	Role      string                 `json:"role"`
	Active    bool                   `json:"active"`
	Resources ResourceBundleResponse `json:"resources"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// TokenResponse is returned by login.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	User        UserResponse `json:"user"`
}

// TenantContextResponse is the resolved tenant view, including whether the
// caller is acting on another tenant's behalf.
type TenantContextResponse struct {
	UserID        string                 `json:"userId"`
	Username      string                 `json:"username"`
	Email         string                 `json:"email"`
	Role          string                 `json:"role"`
	Impersonating bool                   `json:"impersonating"`
	Resources     ResourceBundleResponse `json:"resources"`
}

// JobResponse acknowledges an accepted background job.
type JobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// BackfillResponse reports how many accounts the backfill touched.
type BackfillResponse struct {
	Healed int `json:"healed"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is shared by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

func toResourceBundleResponse(b domain.ResourceBundle) ResourceBundleResponse {
	return ResourceBundleResponse{
		ResourceID:        b.ResourceID,
		DatabaseURI:       b.DatabaseURI,
		BotEndpoint:       b.BotEndpoint,
		SchedulerEndpoint: b.SchedulerEndpoint,
		ScraperEndpoint:   b.ScraperEndpoint,
		VectorStorePath:   b.VectorStorePath,
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		Resources: toResourceBundleResponse(u.Resources),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTenantContextResponse(tc domain.TenantContext, impersonating bool) TenantContextResponse {
	return TenantContextResponse{
		UserID:        tc.UserID,
		Username:      tc.Username,
		Email:         tc.Email,
		Role:          tc.Role,
		Impersonating: impersonating,
		Resources:     toResourceBundleResponse(tc.Resources),
	}
}
