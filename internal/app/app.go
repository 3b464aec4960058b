package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/scheinerik/schedule/internal/config"
	"github.com/scheinerik/schedule/internal/database"
	"github.com/scheinerik/schedule/internal/rest"
	"github.com/scheinerik/schedule/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

const rateLimitCleanupInterval = time.Minute

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg     config.Application
	router  *mux.Router
	srv     *http.Server
	deps    *Dependencies
	closeDb func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	repo, closeDb, err := openRepository(cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(repo, cfg)
	if err != nil {
		closeDb()
		return nil, err
	}

	r := NewRouter(deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, deps: deps, closeDb: closeDb}, nil
}

// NewRouter builds the router with middleware, API routes and, when enabled, the frontend.
func NewRouter(deps *Dependencies, cfg config.Application) *mux.Router {
	r := mux.NewRouter()

	SetupMiddleware(r, deps, cfg)

	RegisterRoutes(r, deps, cfg)

	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler(cfg.Frontend.Dir, "index.html")
		r.PathPrefix("/").Handler(frontend)
	}
	return r
}

// openRepository opens the configured store, applies the migrations and returns the events
// repository with a function releasing the connections.
func openRepository(cfg config.Database) (schedule.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverSqlite:
		db, err := database.OpenSqlite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSqlite(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Infof("Using sqlite database at %s", cfg.Path)
		return schedule.NewSqliteRepository(db), func() { _ = db.Close() }, nil
	case config.DriverPostgres, "":
		if err := database.Migrate(cfg); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using postgres database %s on %s:%d", cfg.Name, cfg.Host, cfg.Port)
		return schedule.NewPostgresRepository(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Run starts the HTTP server and blocks until it fails or the process is interrupted.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.closeDb()

	a.deps.RateLimiter.StartCleanup(rateLimitCleanupInterval, ctx.Done())

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	return nil
}
