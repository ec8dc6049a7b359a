package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/beacon-lab/project-beacon/internal/middleware"
)

const (
	healthPath         = "/health"
	healthCheckTimeout = 2 * time.Second
)

type Server struct {
	Engine *gin.Engine
	Addr   string

	shutdownTimeout time.Duration
	checks          map[string]HealthChecker
}

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// Options configures the HTTP engine.
type Options struct {
	Addr            string
	Mode            string // debug | release
	ServiceName     string // span service name
	TrustedProxies  []string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// New builds the engine with recovery, request logging, tracing and CORS, and
// mounts the public health endpoint. API routes are registered by the caller.
func New(opts Options) (*Server, error) {
	// Set Gin mode based on configuration
	if opts.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// nil disables X-Forwarded-For handling, so ClientIP is the peer address.
	var proxies []string
	if len(opts.TrustedProxies) > 0 {
		proxies = opts.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(otelgin.Middleware(opts.ServiceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		return c.Request.URL.Path != healthPath
	})))
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	s := &Server{
		Engine:          r,
		Addr:            opts.Addr,
		shutdownTimeout: shutdownTimeout,
		checks:          make(map[string]HealthChecker),
	}

	// Health check endpoint with dependency connectivity verification
	r.GET(healthPath, s.healthHandler)

	return s, nil
}

// AddHealthCheck registers a dependency reported by GET /health.
func (s *Server) AddHealthCheck(name string, hc HealthChecker) {
	s.checks[name] = hc
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name].Ping(ctx); err != nil {
			slog.Error("Health check failed: dependency unreachable", "dependency", name, "error", err)
			results[name] = "unreachable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "connected"
	}

	health := "healthy"
	if status != http.StatusOK {
		health = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status": health,
		"checks": results,
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}
