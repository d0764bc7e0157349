package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/stretchr/testify/require"
)

func TestBotAskForwardsTenantContext(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	var got botRequest
	var gotTenantHeader, gotResourceHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		gotTenantHeader = r.Header.Get("X-Tenant-Id")
		gotResourceHeader = r.Header.Get("X-Resource-Id")
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "hello"})
	}))
	defer srv.Close()

	u := seedUser(t, st, func(u *domain.User) {
		u.Resources.BotEndpoint = srv.URL
	})

	bot := &BotService{Tenants: newTestTenantService(t, st)}

	answer, err := bot.Ask(context.Background(), u.ID, "what is in the corpus?", "")
	require.NoError(t, err)
	require.NotEmpty(t, answer.SessionID)
	require.JSONEq(t, `{"answer":"hello"}`, string(answer.Body))

	require.Equal(t, "what is in the corpus?", got.Query)
	require.Equal(t, answer.SessionID, got.SessionID)
	require.Equal(t, u.ID, got.UserID)
	require.Equal(t, u.Resources.ResourceID, got.ResourceID)
	require.Equal(t, u.Resources.VectorStorePath, got.VectorStorePath)
	require.Equal(t, u.Resources.DatabaseURI, got.DatabaseURI)
	require.Equal(t, u.ID, gotTenantHeader)
	require.Equal(t, u.Resources.ResourceID, gotResourceHeader)
}

func TestBotAskKeepsExistingSession(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "still here"})
	}))
	defer srv.Close()

	u := seedUser(t, st, func(u *domain.User) {
		u.Resources.BotEndpoint = srv.URL
	})

	bot := &BotService{Tenants: newTestTenantService(t, st)}

	answer, err := bot.Ask(context.Background(), u.ID, "follow-up", "session-42")
	require.NoError(t, err)
	require.Equal(t, "session-42", answer.SessionID)
}

func TestBotAskTimesOut(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	u := seedUser(t, st, func(u *domain.User) {
		u.Resources.BotEndpoint = srv.URL
	})

	bot := &BotService{
		Tenants: newTestTenantService(t, st),
		Timeout: 50 * time.Millisecond,
	}

	_, err := bot.Ask(context.Background(), u.ID, "slow question", "")
	require.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestBotAskPropagatesResolutionErrors(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	bot := &BotService{Tenants: newTestTenantService(t, st)}

	_, err := bot.Ask(context.Background(), "01MISSING", "hi", "")
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestBotAskSurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	u := seedUser(t, st, func(u *domain.User) {
		u.Resources.BotEndpoint = srv.URL
	})

	bot := &BotService{Tenants: newTestTenantService(t, st)}

	_, err := bot.Ask(context.Background(), u.ID, "hi", "")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUpstreamTimeout)
}
