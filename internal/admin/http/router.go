package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ragops/rag-admin/internal/admin/metrics"
	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/pkg/httpx"
	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/ragops/rag-admin/pkg/slogx"

	_ "github.com/ragops/rag-admin/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	UserService   *service.UserService
	TenantService *service.TenantService
	BotService    *service.BotService
	ScrapeService *service.ScrapeService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerJobs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			RAG Admin API
//	@version		0.1.0
//	@description	Control plane for a multi-tenant RAG deployment: account management,
//	@description	per-tenant resource provisioning, tenant resolution with caching, and
//	@description	dispatch of bot queries and ingest jobs to per-tenant services.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps a tenant-scoped handler with the standard chain:
// authentication, tenant resolution, then a per-user rate limit.
func (r *Router) authed(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		TenantMiddleware(),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

// adminOnly is authed plus the admin role requirement.
func (r *Router) adminOnly(h http.Handler) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAdmin(),
		TenantMiddleware(),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

func (r *Router) registerAuth() {
	register := &RegisterHandler{UserService: r.UserService}
	login := &LoginHandler{UserService: r.UserService}

	// Strict limits: both endpoints are brute-forceable.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(register, httpx.RateLimitByIP(httpx.StrictLimit)),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(login, httpx.RateLimitByIP(httpx.StrictLimit)),
	)
}

func (r *Router) registerUsers() {
	me := &MeHandler{Tenants: r.TenantService, Users: r.UserService}
	r.Mux.Handle("GET /v1/users/me", r.authed(http.HandlerFunc(me.HandleGet)))
	r.Mux.Handle("PUT /v1/users/me", r.authed(http.HandlerFunc(me.HandleUpdate)))
}

func (r *Router) registerAdmin() {
	users := &AdminUsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/admin/users", r.adminOnly(http.HandlerFunc(users.HandleList)))
	r.Mux.Handle("POST /v1/admin/users", r.adminOnly(http.HandlerFunc(users.HandleCreate)))
	r.Mux.Handle("GET /v1/admin/users/{id}", r.adminOnly(http.HandlerFunc(users.HandleGet)))
	r.Mux.Handle("PUT /v1/admin/users/{id}", r.adminOnly(http.HandlerFunc(users.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", r.adminOnly(http.HandlerFunc(users.HandleDelete)))
	r.Mux.Handle("PUT /v1/admin/users/{id}/resources", r.adminOnly(http.HandlerFunc(users.HandleUpdateResources)))
	r.Mux.Handle("POST /v1/admin/backfill", r.adminOnly(http.HandlerFunc(users.HandleBackfill)))
}

func (r *Router) registerJobs() {
	bot := &BotHandler{BotService: r.BotService}
	scrape := &ScrapeHandler{ScrapeService: r.ScrapeService}

	r.Mux.Handle("POST /v1/bot/ask", r.authed(bot))
	r.Mux.Handle("POST /v1/jobs/scrape", r.authed(http.HandlerFunc(scrape.HandleScrape)))
	r.Mux.Handle("POST /v1/jobs/update", r.authed(http.HandlerFunc(scrape.HandleUpdate)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
