package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestAuthnMiddlewareInjectsIdentity(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256("secret", "test-issuer")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims("01USER", "alice", "alice@example.com", "user", time.Hour, "test-issuer", time.Now()))
	require.NoError(t, err)

	var gotUserID string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	}), AuthnMiddleware(signer))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "01USER", gotUserID)
}

func TestAuthnMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256("secret", "test-issuer")
	require.NoError(t, err)

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}), AuthnMiddleware(signer))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256("secret", "test-issuer")
	require.NoError(t, err)

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), AuthnMiddleware(signer), RequireAdmin())

	do := func(role string) int {
		token, err := signer.Sign(jwtx.NewAccessClaims("01USER", "alice", "alice@example.com", role, time.Hour, "test-issuer", time.Now()))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("admin"))
	require.Equal(t, http.StatusForbidden, do("user"))
}
