package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"reviewhub/internal/domain/audit"
	"reviewhub/internal/domain/campaign"
	"reviewhub/internal/domain/directory"
	"reviewhub/internal/domain/evaluation"
	"reviewhub/internal/platform/config"
	"reviewhub/internal/platform/db"
	"reviewhub/internal/platform/jobs"
	"reviewhub/internal/platform/metrics"
	"reviewhub/internal/transport/http/api"
	audithandler "reviewhub/internal/transport/http/handlers/audit"
	campaignhandler "reviewhub/internal/transport/http/handlers/campaign"
	directoryhandler "reviewhub/internal/transport/http/handlers/directory"
	"reviewhub/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *db.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// Pinger reports database reachability for /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes holds everything the HTTP surface needs. Nil handlers are skipped.
type Routes struct {
	Config    config.Config
	DB        Pinger
	Metrics   *metrics.Collector
	Directory *directoryhandler.Handler
	Campaigns *campaignhandler.Handler
	Audit     *audithandler.Handler
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.DB.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "err", err)
		}
	}()

	slog.Info("reviewhub server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// New connects to the database, applies migrations and wires services,
// handlers and the readiness sweep. Jobs are registered but not started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()
	directoryStore := directory.NewStore(pool)
	directoryService := directory.NewService(directoryStore)
	campaignService := campaign.NewService(
		campaign.NewStore(pool, directoryStore),
		directoryService,
		evaluation.NewCache(cfg.PlanCacheSize),
		collector,
		cfg.WorkloadThreshold,
	)
	auditService := audit.New(pool)
	perms := middleware.StaticPermissions{}

	jobService := jobs.New(jobs.PGRunStore{DB: pool})
	if cfg.ReadinessSweepSchedule != "" {
		if err := jobService.Schedule(cfg.ReadinessSweepSchedule, jobs.JobReadinessSweep, "", readinessSweep(campaignService)); err != nil {
			pool.Close()
			return nil, err
		}
	}

	router := NewRouter(Routes{
		Config:    cfg,
		DB:        pool,
		Metrics:   collector,
		Directory: directoryhandler.NewHandler(directoryService, auditService, perms),
		Campaigns: campaignhandler.NewHandler(campaignService, auditService, perms),
		Audit:     audithandler.NewHandler(auditService, perms),
	})
	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobService}, nil
}

func NewRouter(routes Routes) http.Handler {
	cfg := routes.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(routes.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if routes.DB == nil {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := routes.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && routes.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, routes.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		if routes.Directory != nil {
			routes.Directory.RegisterRoutes(r)
		}
		if routes.Campaigns != nil {
			routes.Campaigns.RegisterRoutes(r)
		}
		if routes.Audit != nil {
			routes.Audit.RegisterRoutes(r)
		}
	})
	return router
}

func readinessSweep(service *campaign.Service) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		results, err := service.SweepDrafts(ctx)
		if err != nil {
			return nil, err
		}
		blocked := 0
		for _, res := range results {
			if res.Blocked {
				blocked++
			}
		}
		slog.Info("readiness sweep finished", "campaigns", len(results), "blocked", blocked)
		return map[string]any{"campaigns": results, "blocked": blocked}, nil
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
