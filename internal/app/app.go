// Package app assembles the health service from its configuration: secret
// resolution, checkers, telemetry and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pleme-io/pleme-health/health"
	"github.com/pleme-io/pleme-health/health/checks"
	"github.com/pleme-io/pleme-health/internal/config"
	"github.com/pleme-io/pleme-health/observe"
)

// App is a configured health service.
type App struct {
	cfg        *config.Config
	instanceID string
	routes     *health.Routes
	observer   observe.Observer
	registry   *prometheus.Registry
	closers    []io.Closer
	closed     bool
}

// Option customizes New.
type Option func(*options)

type options struct {
	logOutput io.Writer
}

// WithLogOutput sends the service log to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// New resolves the secrets referenced by cfg, creates one checker per
// configured check and sets up telemetry. cfg is modified in place by secret
// resolution. Checkers connect lazily, so an unreachable dependency does not
// fail New.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	resolver, err := cfg.NewResolver()
	if err != nil {
		return nil, fmt.Errorf("create secret resolver: %w", err)
	}
	defer resolver.Close()

	if err := cfg.ResolveSecrets(ctx, resolver); err != nil {
		return nil, fmt.Errorf("resolve secrets: %w", err)
	}

	a := &App{cfg: cfg, instanceID: uuid.NewString()}

	obsCfg := cfg.ObserverConfig()
	obsCfg.InstanceID = a.instanceID
	obsCfg.Logging.Output = o.logOutput
	if obsCfg.Metrics.Enabled && obsCfg.Metrics.Exporter == "prometheus" {
		a.registry = prometheus.NewRegistry()
		obsCfg.Metrics.Registerer = a.registry
	}

	a.observer, err = observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("create observer: %w", err)
	}

	mw, err := observe.NewCheckMiddleware(a.observer, observe.WithCheckKinds(cfg.CheckKinds()))
	if err != nil {
		_ = a.observer.Shutdown(ctx)
		return nil, fmt.Errorf("create check middleware: %w", err)
	}

	var builder *health.Builder
	if cfg.Service.Version == "" {
		builder = health.NewBuilderWithoutVersion(cfg.Service.Name)
	} else {
		builder = health.NewBuilder(cfg.Service.Name, cfg.Service.Version)
	}
	builder.WithConfig(cfg.HealthConfig()).Use(mw)

	for _, cc := range cfg.Checks {
		checker, err := a.newChecker(cc)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("check %q: %w", cc.Name, err)
		}
		builder.AddCheck(cc.Name, checker)
	}
	a.routes = builder.Build()

	return a, nil
}

func (a *App) newChecker(cc config.CheckConfig) (health.Checker, error) {
	switch cc.Type {
	case config.TypePostgres:
		db, err := checks.OpenPostgres(cc.DSN)
		if err != nil {
			return nil, err
		}
		return a.track(checks.Postgres(db)), nil
	case config.TypeSQLite:
		db, err := checks.OpenSQLite(cc.Path)
		if err != nil {
			return nil, err
		}
		return a.track(checks.Database(db)), nil
	case config.TypeRedis:
		return a.track(checks.Redis(cc.URL)), nil
	case config.TypeMongoDB:
		return a.track(checks.MongoDB(cc.URL)), nil
	case config.TypeHTTP:
		keys := make([]string, 0, len(cc.Headers))
		for key := range cc.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		opts := make([]checks.HTTPOption, 0, len(keys))
		for _, key := range keys {
			opts = append(opts, checks.WithHeader(key, cc.Headers[key]))
		}
		return checks.HTTP(cc.URL, cc.ExpectedStatus, opts...), nil
	case config.TypeMemory:
		return checks.Memory(checks.MemoryConfig{
			WarningThreshold:  cc.WarningThreshold,
			CriticalThreshold: cc.CriticalThreshold,
			MaxAlloc:          cc.MaxAllocBytes,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown check type %q", config.ErrInvalidConfig, cc.Type)
	}
}

type closingChecker interface {
	health.Checker
	io.Closer
}

func (a *App) track(c closingChecker) health.Checker {
	a.closers = append(a.closers, c)
	return c
}

// InstanceID identifies this process in exported telemetry.
func (a *App) InstanceID() string {
	return a.instanceID
}

// Routes returns the liveness and readiness routes.
func (a *App) Routes() *health.Routes {
	return a.routes
}

// Logger returns the service logger.
func (a *App) Logger() observe.Logger {
	return a.observer.Logger()
}

// Check runs one readiness evaluation.
func (a *App) Check(ctx context.Context) health.Response {
	return a.routes.Readiness(ctx)
}

// Handler returns the HTTP handler serving /health, /ready and, with the
// prometheus metrics exporter, /metrics.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	a.routes.Mount(r)
	if a.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		}))
	}
	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (a *App) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts the server down,
// waiting at most server.shutdown_timeout for in-flight requests.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	logger := a.Logger()
	logger.Info(ctx, "server listening",
		observe.Field{Key: "addr", Value: ln.Addr().String()},
		observe.Field{Key: "checks", Value: a.routes.Names()},
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info(context.Background(), "server stopped")
	return nil
}

// Close releases the connections held by checkers and flushes telemetry.
// It returns the first error encountered. Calls after the first are no-ops.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil

	if a.observer != nil && !a.closed {
		a.closed = true
		if err := a.observer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
