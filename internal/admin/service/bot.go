package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ragops/rag-admin/internal/admin/metrics"
)

// DefaultBotTimeout bounds a single bot round-trip.
const DefaultBotTimeout = 30 * time.Second

// BotService forwards chat queries to the tenant's bot endpoint.
type BotService struct {
	Tenants *TenantService
	Client  *http.Client
	Timeout time.Duration
}

// BotAnswer carries the bot's verbatim JSON reply plus the session it
// belongs to.
type BotAnswer struct {
	SessionID string
	Body      json.RawMessage
}

type botRequest struct {
	Query           string `json:"query"`
	SessionID       string `json:"session_id"`
	UserID          string `json:"user_id"`
	ResourceID      string `json:"resource_id"`
	VectorStorePath string `json:"vector_store_path"`
	DatabaseURI     string `json:"database_uri"`
}

// Ask resolves the tenant and forwards the query to its bot. An empty
// sessionID starts a new conversation. The call is bounded by Timeout; on
// expiry the error is ErrUpstreamTimeout so handlers can answer 504.
func (s *BotService) Ask(ctx context.Context, tenantUserID, query, sessionID string) (BotAnswer, error) {
	tc, err := s.Tenants.Resolve(ctx, tenantUserID, false)
	if err != nil {
		return BotAnswer{}, err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultBotTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(botRequest{
		Query:           query,
		SessionID:       sessionID,
		UserID:          tc.UserID,
		ResourceID:      tc.Resources.ResourceID,
		VectorStorePath: tc.Resources.VectorStorePath,
		DatabaseURI:     tc.Resources.DatabaseURI,
	})
	if err != nil {
		return BotAnswer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.Resources.BotEndpoint+"/chat", bytes.NewReader(payload))
	if err != nil {
		return BotAnswer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", tc.UserID)
	req.Header.Set("X-Resource-Id", tc.Resources.ResourceID)

	resp, err := s.client().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.RecordJobDispatch("bot", "timeout")
			return BotAnswer{}, fmt.Errorf("%w: bot did not answer within %s", ErrUpstreamTimeout, timeout)
		}
		metrics.RecordJobDispatch("bot", "error")
		return BotAnswer{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordJobDispatch("bot", "error")
		return BotAnswer{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordJobDispatch("bot", "error")
		return BotAnswer{}, fmt.Errorf("bot returned status %d", resp.StatusCode)
	}

	metrics.RecordJobDispatch("bot", "ok")
	return BotAnswer{SessionID: sessionID, Body: body}, nil
}

func (s *BotService) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}
