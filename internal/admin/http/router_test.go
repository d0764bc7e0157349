package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/internal/admin/store/drivers/sqlite"
	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/ragops/rag-admin/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewHS256("test-secret", "rag-admin-test")
	require.NoError(t, err)

	provisioner := &service.Provisioner{
		DatabaseBaseURI:  "postgres://tenants.internal:5432",
		BotBaseURL:       "http://bot.internal:8100",
		SchedulerBaseURL: "http://scheduler.internal:8200",
		ScraperBaseURL:   "http://scraper.internal:8300",
		VectorStoreRoot:  "/var/lib/vectors",
	}
	tenants := service.NewTenantService(st, provisioner, time.Minute, service.DefaultStoreTimeout)
	users := &service.UserService{
		Store:       st,
		Tenants:     tenants,
		Provisioner: provisioner,
		Signer:      signer,
		Issuer:      "rag-admin-test",
		AccessTTL:   time.Hour,
	}

	logger := slogx.New(slogx.Config{Service: "rag-admin", Env: "test", Format: "text", Level: "error"})

	r := NewRouter(signer, "test", st, logger)
	r.UserService = users
	r.TenantService = tenants
	r.BotService = &service.BotService{Tenants: tenants}
	r.ScrapeService = &service.ScrapeService{Tenants: tenants}
	r.ApplyRoutes()
	return r
}

func doJSON(t *testing.T, router *Router, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *Router, name, username string) (token string, userID string) {
	t.Helper()

	rec := doJSON(t, router, "POST", "/v1/auth/register", "",
		`{"name":"`+name+`","username":"`+username+`","email":"`+username+`@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, "POST", "/v1/auth/login", "",
		`{"username":"`+username+`","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loggedIn TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))
	require.NotEmpty(t, loggedIn.AccessToken)

	return loggedIn.AccessToken, created.ID
}

func TestMeReturnsOwnTenant(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	token, userID := registerAndLogin(t, router, "Alice", "alice")

	rec := doJSON(t, router, "GET", "/v1/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tc TenantContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tc))
	require.Equal(t, userID, tc.UserID)
	require.False(t, tc.Impersonating)
	require.NotEmpty(t, tc.Resources.ResourceID)
	require.NotEmpty(t, tc.Resources.DatabaseURI)
}

func TestMeRequiresAuthentication(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/users/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeProfileUpdate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	token, userID := registerAndLogin(t, router, "Alice", "alice")

	rec := doJSON(t, router, "PUT", "/v1/users/me", token,
		`{"email":"alice.new@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, userID, updated.ID)
	require.Equal(t, "alice.new@example.com", updated.Email)
	require.Equal(t, "alice", updated.Username)

	// The cached tenant context reflects the change without refresh=true.
	rec = doJSON(t, router, "GET", "/v1/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tc TenantContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tc))
	require.Equal(t, "alice.new@example.com", tc.Email)

	// A password change takes effect on the next login.
	rec = doJSON(t, router, "PUT", "/v1/users/me", token, `{"password":"new-password-456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, "POST", "/v1/auth/login", "",
		`{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "POST", "/v1/auth/login", "",
		`{"username":"alice","password":"new-password-456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminImpersonatesViaHeader(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	adminToken, _ := registerAndLogin(t, router, "Alice", "alice") // first user is admin
	_, bobID := registerAndLogin(t, router, "Bob", "bob")

	req := httptest.NewRequest("GET", "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("X-Tenant-Id", bobID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tc TenantContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tc))
	require.Equal(t, bobID, tc.UserID)
	require.True(t, tc.Impersonating)
}

func TestNonAdminOverrideRejected(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	_, aliceID := registerAndLogin(t, router, "Alice", "alice")
	bobToken, _ := registerAndLogin(t, router, "Bob", "bob")

	req := httptest.NewRequest("GET", "/v1/users/me?tenantUserId="+aliceID, nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	_, _ = registerAndLogin(t, router, "Alice", "alice")
	bobToken, _ := registerAndLogin(t, router, "Bob", "bob")

	rec := doJSON(t, router, "GET", "/v1/admin/users", bobToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUserLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	adminToken, adminID := registerAndLogin(t, router, "Alice", "alice")

	// Create.
	rec := doJSON(t, router, "POST", "/v1/admin/users", adminToken,
		`{"name":"Carol","username":"carol","email":"carol@example.com","password":"password123","role":"user"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var carol UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &carol))
	require.NotEmpty(t, carol.Resources.ResourceID)

	// Duplicate username conflicts with a field-specific error.
	rec = doJSON(t, router, "POST", "/v1/admin/users", adminToken,
		`{"name":"Other","username":"carol","email":"other@example.com","password":"password123"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), `"field":"username"`)

	// Update profile.
	rec = doJSON(t, router, "PUT", "/v1/admin/users/"+carol.ID, adminToken,
		`{"email":"carol.renamed@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "carol.renamed@example.com", updated.Email)
	require.Equal(t, "carol", updated.Username)

	// Resource update keeps the id immutable.
	rec = doJSON(t, router, "PUT", "/v1/admin/users/"+carol.ID+"/resources", adminToken,
		`{"resourceId":"tenant-hijacked-000000","databaseUri":"postgres://elsewhere/db",
		  "botEndpoint":"http://bot","schedulerEndpoint":"http://sched",
		  "scraperEndpoint":"http://scraper","vectorStorePath":"/vectors/x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, carol.Resources.ResourceID, updated.Resources.ResourceID)
	require.Equal(t, "postgres://elsewhere/db", updated.Resources.DatabaseURI)

	// Self-deletion refused; deleting another user works.
	rec = doJSON(t, router, "DELETE", "/v1/admin/users/"+adminID, adminToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, "DELETE", "/v1/admin/users/"+carol.ID, adminToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/admin/users/"+carol.ID, adminToken, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginDoesNotRevealWhichFieldWasWrong(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	_, _ = registerAndLogin(t, router, "Alice", "alice")

	unknown := doJSON(t, router, "POST", "/v1/auth/login", "",
		`{"username":"nobody","password":"password123"}`)
	wrong := doJSON(t, router, "POST", "/v1/auth/login", "",
		`{"username":"alice","password":"bad-password"}`)

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/livez", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/readyz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
}
