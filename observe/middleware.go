package observe

import (
	"context"
	"time"

	"github.com/pleme-io/pleme-health/health"
)

// Middleware wraps checkers with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns checkers that are safe for concurrent use.
//   - Context: the span context is passed to the wrapped checker.
//   - Ownership: results from the wrapped checker are returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
	kinds   map[string]string
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithCheckKinds labels telemetry of each named check with its kind.
func WithCheckKinds(kinds map[string]string) MiddlewareOption {
	return func(m *Middleware) {
		m.kinds = make(map[string]string, len(kinds))
		for name, kind := range kinds {
			m.kinds[name] = kind
		}
	}
}

// NewMiddleware creates a Middleware from its components. Nil components are
// replaced with no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger, opts ...MiddlewareOption) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}

	m := &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Wrap instruments next under the given check name. Its signature matches
// health.Middleware.
func (m *Middleware) Wrap(name string, next health.Checker) health.Checker {
	meta := CheckMeta{Name: name, Kind: m.kinds[name]}
	logger := m.logger.WithCheck(meta)

	return health.CheckerFunc(func(ctx context.Context) health.Result {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result := next.Check(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, result)
		m.metrics.RecordCheck(ctx, meta, duration, result)

		fields := []Field{
			{Key: "status", Value: result.Status.String()},
			{Key: "duration_ms", Value: duration.Milliseconds()},
		}
		if result.Message != "" {
			fields = append(fields, Field{Key: "message", Value: result.Message})
		}

		if result.Status == health.StatusHealthy {
			logger.Debug(ctx, "health check passed", fields...)
		} else {
			logger.Warn(ctx, "health check failed", fields...)
		}

		return result
	})
}

// NewCheckMiddleware builds a health.Middleware that reports every check
// invocation to obs.
func NewCheckMiddleware(obs Observer, opts ...MiddlewareOption) (health.Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger(), opts...).Wrap, nil
}
