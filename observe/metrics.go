package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pleme-io/pleme-health/health"
)

// Metric names.
const (
	MetricCheckTotal     = "health.check.total"
	MetricCheckUnhealthy = "health.check.unhealthy"
	MetricCheckDuration  = "health.check.duration_ms"
)

// Metrics records check invocation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one check invocation with its duration and result.
	RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, result health.Result)
}

type metricsImpl struct {
	totalCount     metric.Int64Counter
	unhealthyCount metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with instruments from meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricCheckTotal,
		metric.WithDescription("Total number of health check invocations"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	unhealthyCount, err := meter.Int64Counter(
		MetricCheckUnhealthy,
		metric.WithDescription("Health check invocations that did not report healthy"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricCheckDuration,
		metric.WithDescription("Health check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:     totalCount,
		unhealthyCount: unhealthyCount,
		durationHist:   durationHist,
	}, nil
}

// RecordCheck records metrics for a check invocation.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, result health.Result) {
	attrs := append(meta.attributes(), attribute.String("check.status", result.Status.String()))
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	if result.Status != health.StatusHealthy {
		m.unhealthyCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, result health.Result) {
}
