package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/metrics"
	"github.com/ragops/rag-admin/pkg/slogx"
)

// ScrapeService dispatches long-running ingest jobs to the tenant's scraper
// and scheduler. Jobs run far longer than any request deadline, so dispatch
// happens in the background on a context detached from the caller's.
type ScrapeService struct {
	Tenants *TenantService
	Client  *http.Client
}

type jobRequest struct {
	JobID           string `json:"job_id"`
	UserID          string `json:"user_id"`
	ResourceID      string `json:"resource_id"`
	DatabaseURI     string `json:"database_uri"`
	VectorStorePath string `json:"vector_store_path"`
}

// Run starts a full scrape for the tenant and returns the job id. The tenant
// is resolved synchronously so callers still get NotFound/Forbidden errors;
// only the dispatch itself is detached.
func (s *ScrapeService) Run(ctx context.Context, tenantUserID string) (string, error) {
	tc, err := s.Tenants.Resolve(ctx, tenantUserID, false)
	if err != nil {
		return "", err
	}
	return s.dispatch(ctx, "scrape", tc, tc.Resources.ScraperEndpoint+"/scrape")
}

// RunUpdate starts an incremental update via the tenant's scheduler.
func (s *ScrapeService) RunUpdate(ctx context.Context, tenantUserID string) (string, error) {
	tc, err := s.Tenants.Resolve(ctx, tenantUserID, false)
	if err != nil {
		return "", err
	}
	return s.dispatch(ctx, "update", tc, tc.Resources.SchedulerEndpoint+"/update")
}

func (s *ScrapeService) dispatch(ctx context.Context, job string, tc domain.TenantContext, url string) (string, error) {
	l := slogx.FromContext(ctx)
	jobID := uuid.NewString()

	payload, err := json.Marshal(jobRequest{
		JobID:           jobID,
		UserID:          tc.UserID,
		ResourceID:      tc.Resources.ResourceID,
		DatabaseURI:     tc.Resources.DatabaseURI,
		VectorStorePath: tc.Resources.VectorStorePath,
	})
	if err != nil {
		return "", err
	}

	// Detach from the request context: cancelling the HTTP request must not
	// abort a job that may run for hours.
	bg := context.WithoutCancel(ctx)

	go func() {
		req, err := http.NewRequestWithContext(bg, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			metrics.RecordJobDispatch(job, "error")
			l.Error("job dispatch failed", slog.String("job", job), slog.String("job_id", jobID), slog.Any("err", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-Id", tc.UserID)
		req.Header.Set("X-Resource-Id", tc.Resources.ResourceID)

		resp, err := s.client().Do(req)
		if err != nil {
			metrics.RecordJobDispatch(job, "error")
			l.Error("job dispatch failed", slog.String("job", job), slog.String("job_id", jobID), slog.Any("err", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			metrics.RecordJobDispatch(job, "error")
			l.Error("job rejected downstream",
				slog.String("job", job),
				slog.String("job_id", jobID),
				slog.String("status", fmt.Sprintf("%d", resp.StatusCode)),
			)
			return
		}

		metrics.RecordJobDispatch(job, "ok")
		l.Info("job dispatched", slog.String("job", job), slog.String("job_id", jobID), slog.String("user_id", tc.UserID))
	}()

	return jobID, nil
}

func (s *ScrapeService) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}
