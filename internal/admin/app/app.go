package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/ragops/rag-admin/internal/admin/http"
	"github.com/ragops/rag-admin/internal/admin/metrics"
	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/internal/admin/store/drivers/sqlite"
	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/ragops/rag-admin/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the admin service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.HS256

	tenantService *service.TenantService
	userService   *service.UserService
	botService    *service.BotService
	scrapeService *service.ScrapeService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rag-admin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	tokens, err := jwtx.NewHS256(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	metrics.SetInfo(BuildVersion)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("admin service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("admin service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	provisioner := &service.Provisioner{
		DatabaseBaseURI:  app.cfg.TenantDatabaseBaseURI,
		BotBaseURL:       app.cfg.BotBaseURL,
		SchedulerBaseURL: app.cfg.SchedulerBaseURL,
		ScraperBaseURL:   app.cfg.ScraperBaseURL,
		VectorStoreRoot:  app.cfg.VectorStoreRoot,
	}

	app.tenantService = service.NewTenantService(
		app.db,
		provisioner,
		app.cfg.TenantCacheTTL,
		app.cfg.StoreTimeout,
	)

	app.userService = &service.UserService{
		Store:       app.db,
		Tenants:     app.tenantService,
		Provisioner: provisioner,
		Signer:      app.tokens,
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.AccessTTL,
	}

	app.botService = &service.BotService{
		Tenants: app.tenantService,
		Timeout: app.cfg.BotTimeout,
	}

	app.scrapeService = &service.ScrapeService{
		Tenants: app.tenantService,
	}
}

// initHTTP wires up the router and HTTP server.
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.tokens, BuildVersion, app.db, app.logger)
	app.router.UserService = app.userService
	app.router.TenantService = app.tenantService
	app.router.BotService = app.botService
	app.router.ScrapeService = app.scrapeService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
