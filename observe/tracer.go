package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/pleme-io/pleme-health/health"
)

// CheckMeta describes a registered check for telemetry purposes.
type CheckMeta struct {
	Name string // Registered check name (required)
	Kind string // Checker type such as postgres or redis (optional)
}

// SpanName returns the deterministic span name for this check.
// Format: health.check.<name>
func (m CheckMeta) SpanName() string {
	return "health.check." + m.Name
}

func (m CheckMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", m.Name),
	}
	if m.Kind != "" {
		attrs = append(attrs, attribute.String("check.kind", m.Kind))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with check-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a check invocation.
	StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the check outcome.
	EndSpan(span trace.Span, result health.Result)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with check metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan sets check.status on the span and marks it as an error unless the
// check reported healthy.
func (t *tracerImpl) EndSpan(span trace.Span, result health.Result) {
	span.SetAttributes(attribute.String("check.status", result.Status.String()))
	if result.Status == health.StatusHealthy {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.Message)
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, result health.Result) {
	span.End()
}
