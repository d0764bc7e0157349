package http

import (
	"encoding/json"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
)

type BotHandler struct {
	BotService *service.BotService
}

type askRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId"`

	// TenantUserID is consumed by the tenant middleware; declared here so
	// the field is documented in the API schema.
	TenantUserID string `json:"tenantUserId,omitempty"`
}

// ServeHTTP forwards a chat query to the effective tenant's bot.
//
//	@Summary		Ask the bot
//	@Description	Sends a query to the tenant's RAG bot and relays the answer. An empty
//	@Description	sessionId starts a new conversation.
//	@Tags			Bot
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		askRequest	true	"Query"
//	@Success		200		{object}	map[string]any
//	@Failure		403		{object}	map[string]string	"Account deactivated or override forbidden"
//	@Failure		504		{object}	map[string]string	"Bot did not answer in time"
//	@Router			/v1/bot/ask [post].
func (h *BotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := h.BotService.Ask(ctx, httpx.TenantUserIDFromContext(ctx), req.Query, req.SessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", answer.SessionID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(answer.Body)
}
