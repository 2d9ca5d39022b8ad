package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"review360/internal/domain/audit"
	"review360/internal/domain/auth"
	"review360/internal/domain/evaluation"
	"review360/internal/platform/config"
	"review360/internal/platform/db"
	"review360/internal/platform/jobs"
	"review360/internal/platform/metrics"
	"review360/internal/platform/querier"
	audithandler "review360/internal/transport/http/handlers/audit"
	coefficientshandler "review360/internal/transport/http/handlers/coefficients"
	compensationhandler "review360/internal/transport/http/handlers/compensation"
	resultshandler "review360/internal/transport/http/handlers/results"
	"review360/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Database is what the router needs from the connection pool.
type Database interface {
	querier.Querier
	Ping(ctx context.Context) error
}

type App struct {
	Config     config.Config
	Evaluation *evaluation.Service
	Jobs       *jobs.Service
	Metrics    *metrics.Manager
	Router     http.Handler
}

func New(cfg config.Config, database Database) *App {
	var m *metrics.Manager
	var observer evaluation.Observer
	var recorder middleware.RequestRecorder
	if cfg.MetricsEnabled {
		m = metrics.New(metrics.WithRuntimeCollectors())
		observer = m
		recorder = m
	}

	svc := evaluation.NewService(evaluation.NewStore(database), evaluation.Options{
		Defaults:      cfg.Scoring(),
		DefaultMinPct: cfg.DefaultMinPct,
		DefaultMaxPct: cfg.DefaultMaxPct,
		Observer:      observer,
	})
	auditSvc := audit.New(database)
	perms := auth.DefaultPolicy()
	runs := jobs.New(jobs.NewPGStore(database), jobs.SnapshotFunc(func(ctx context.Context, orgID, periodID string) (any, error) {
		return svc.SnapshotPeriod(ctx, orgID, periodID)
	}), cfg.SnapshotInterval)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(recorder))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if m != nil {
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		resultshandler.NewHandler(svc, perms).RegisterRoutes(r)
		compensationhandler.NewHandler(svc, perms, auditSvc).RegisterRoutes(r)
		coefficientshandler.NewHandler(trackedSnapshots{Service: svc, runs: runs}, perms, auditSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, perms).RegisterRoutes(r)
	})

	return &App{Config: cfg, Evaluation: svc, Jobs: runs, Metrics: m, Router: router}
}

// Run connects, prepares the schema when configured, and serves until ctx is
// cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		applied, err := db.Migrate(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		slog.Info("migrations applied", "count", len(applied))
	}
	if cfg.RunSeed {
		orgID, err := db.Seed(ctx, pool, cfg.SeedOrgName, cfg.Scoring())
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		slog.Info("seed complete", "orgId", orgID)
	}

	app := New(cfg, pool)
	if cfg.SnapshotInterval > 0 {
		app.Jobs.Start(ctx)
		slog.Info("period snapshot scheduler started", "interval", cfg.SnapshotInterval)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("review360 server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
