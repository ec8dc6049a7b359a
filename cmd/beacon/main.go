package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	corecfg "github.com/beacon-lab/project-beacon/internal/core/config"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/core/storage/memory"
	"github.com/beacon-lab/project-beacon/internal/core/storage/postgres"
	"github.com/beacon-lab/project-beacon/internal/ingestion"
	"github.com/beacon-lab/project-beacon/internal/metric"
	metricapi "github.com/beacon-lab/project-beacon/internal/metric/api"
	"github.com/beacon-lab/project-beacon/internal/middleware"
	"github.com/beacon-lab/project-beacon/internal/profile"
	"github.com/beacon-lab/project-beacon/internal/ratelimit"
	"github.com/beacon-lab/project-beacon/internal/schema"
	"github.com/beacon-lab/project-beacon/internal/server"
	"github.com/beacon-lab/project-beacon/internal/telemetry"
	"github.com/beacon-lab/project-beacon/internal/tracking"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional; env vars override it)")
	flag.Parse()

	// 0. Bootstrap logger, replaced once the log config is known
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"database", cfg.Database.Type,
		"auth_enabled", cfg.Auth.Enabled,
		"rate_limit_enabled", cfg.RateLimit.Enabled,
		"rate_limit_backend", cfg.RateLimit.Backend,
		"tracing_enabled", cfg.Tracing.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()

	// 3. Initialize Storage (PostgreSQL, or in-memory for local runs)
	store, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 4. Initialize Metric Registry and sync file definitions
	validator := schema.NewValidator(cfg.Metrics.SchemaCacheSize)
	registry := metric.NewRegistry(store, validator)

	if cfg.Metrics.SyncOnStart {
		defs, err := metric.LoadDefinitions(cfg.Metrics.DefinitionsPath)
		if err != nil {
			slog.Error("Failed to load metric definitions", "path", cfg.Metrics.DefinitionsPath, "error", err)
			os.Exit(1)
		}
		if err := registry.SyncDefinitions(ctx, defs); err != nil {
			slog.Error("Failed to sync metric definitions", "error", err)
			os.Exit(1)
		}
		slog.Info("Metric definitions synced", "count", len(defs), "path", cfg.Metrics.DefinitionsPath)
	}

	// 5. Initialize Identity Resolution, Event Recording and the HTTP services
	resolver := profile.NewResolver(store)
	recorder := tracking.NewRecorder(registry, validator, store)
	ingestionSvc := ingestion.NewService(resolver, recorder, store, store, cfg.Server.MaxBodySizeMB)
	metricSvc := metricapi.NewService(registry, validator)

	// 6. Initialize Server
	srv, err := server.New(server.Options{
		Addr:            fmtAddr(cfg.Server.Host, cfg.Server.Port),
		Mode:            cfg.Server.Mode,
		ServiceName:     cfg.Tracing.ServiceName,
		TrustedProxies:  cfg.Server.TrustedProxies,
		CORSOrigins:     cfg.CORS.AllowOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
	})
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	srv.AddHealthCheck("database", store)

	// 7. Initialize Rate Limiting
	var limiter ratelimit.Store
	if cfg.RateLimit.Enabled {
		store, closeLimiter, err := newRateLimitStore(ctx, cfg, srv)
		if err != nil {
			slog.Error("Failed to initialize rate limiting", "error", err)
			os.Exit(1)
		}
		defer closeLimiter()
		limiter = store
	} else {
		slog.Info("Rate limiting disabled by config")
	}
	if !cfg.Auth.Enabled {
		slog.Warn("API key authentication disabled by config")
	}

	api := srv.Engine.Group("/", apiMiddleware(cfg.Auth, limiter)...)
	ingestionSvc.RegisterRoutes(api)
	metricSvc.RegisterRoutes(api)

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// apiMiddleware returns the API route guards. Rate limiting runs before the
// key check, so requests with a wrong key count against the client's window.
func apiMiddleware(auth corecfg.AuthConfig, limiter ratelimit.Store) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if limiter != nil {
		chain = append(chain, ratelimit.Middleware(limiter))
	}
	if auth.Enabled {
		chain = append(chain, middleware.APIKey(auth.APIKeys))
	}
	return chain
}

func openStore(cfg corecfg.DatabaseConfig) (storage.Store, error) {
	if cfg.Type == "memory" {
		slog.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}
	return postgres.NewAdapter(postgres.Options{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetimeDuration(),
		AutoMigrate:     cfg.AutoMigrate,
	})
}

// newRateLimitStore builds the configured counter backend. The memory backend
// starts its sweeper on ctx; the redis backend is added to the health checks.
func newRateLimitStore(ctx context.Context, cfg *corecfg.Config, srv *server.Server) (ratelimit.Store, func(), error) {
	limit := cfg.RateLimit.MaxRequests
	window := cfg.RateLimit.WindowDuration()

	if cfg.RateLimit.Backend == "redis" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}

		srv.AddHealthCheck("redis", server.HealthCheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
		slog.Info("[RateLimit] Using redis backend", "addr", cfg.Redis.Addr, "window", window, "limit", limit)
		return ratelimit.NewRedisStore(rdb, limit, window), func() { _ = rdb.Close() }, nil
	}

	store := ratelimit.NewMemoryStore(limit, window)
	go func() {
		if err := store.Start(ctx, cfg.RateLimit.SweepIntervalDuration()); err != nil {
			slog.Error("[RateLimit] Sweeper stopped with error", "error", err)
		}
	}()
	return store, func() {}, nil
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
