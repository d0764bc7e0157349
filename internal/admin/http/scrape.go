package http

import (
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
)

type ScrapeHandler struct {
	ScrapeService *service.ScrapeService
}

// HandleScrape starts a full scrape for the effective tenant.
//
//	@Summary		Start a scrape job
//	@Description	Dispatches a full ingest to the tenant's scraper. The job runs detached
//	@Description	from this request and is acknowledged immediately.
//	@Tags			Jobs
//	@Security		BearerAuth
//	@Produce		json
//	@Success		202	{object}	JobResponse
//	@Failure		403	{object}	map[string]string	"Account deactivated or override forbidden"
//	@Router			/v1/jobs/scrape [post].
func (h *ScrapeHandler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := h.ScrapeService.Run(ctx, httpx.TenantUserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, JobResponse{JobID: jobID, Status: "accepted"})
}

// HandleUpdate starts an incremental update via the tenant's scheduler.
//
//	@Summary	Start an update job
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Produce	json
//	@Success	202	{object}	JobResponse
//	@Failure	403	{object}	map[string]string	"Account deactivated or override forbidden"
//	@Router		/v1/jobs/update [post].
func (h *ScrapeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := h.ScrapeService.RunUpdate(ctx, httpx.TenantUserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, JobResponse{JobID: jobID, Status: "accepted"})
}
