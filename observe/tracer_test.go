package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pleme-io/pleme-health/health"
)

func newRecordingTracer() (*tracetest.SpanRecorder, Tracer) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, NewTracer(tp.Tracer("test"))
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

// TestCheckMeta_SpanName verifies the span name format.
func TestCheckMeta_SpanName(t *testing.T) {
	meta := CheckMeta{Name: "database", Kind: "postgres"}

	if got := meta.SpanName(); got != "health.check.database" {
		t.Errorf("expected %q, got %q", "health.check.database", got)
	}
}

// TestTracer_SpanAttributes verifies attributes and status of a healthy check.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder, tr := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), CheckMeta{Name: "database", Kind: "postgres"})
	tr.EndSpan(span, health.Healthy())

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrs := spanAttrs(spans[0])
	if v := attrs["check.name"].AsString(); v != "database" {
		t.Errorf("expected check.name='database', got %q", v)
	}
	if v := attrs["check.kind"].AsString(); v != "postgres" {
		t.Errorf("expected check.kind='postgres', got %q", v)
	}
	if v := attrs["check.status"].AsString(); v != "healthy" {
		t.Errorf("expected check.status='healthy', got %q", v)
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", spans[0].Status().Code)
	}
}

// TestTracer_SpanAttributesMinimal verifies check.kind is omitted when empty.
func TestTracer_SpanAttributesMinimal(t *testing.T) {
	recorder, tr := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), CheckMeta{Name: "cache"})
	tr.EndSpan(span, health.Healthy())

	attrs := spanAttrs(recorder.Ended()[0])
	if _, ok := attrs["check.kind"]; ok {
		t.Error("check.kind should not be set when empty")
	}
}

// TestTracer_UnhealthyRecordsError verifies non-healthy results mark the span as failed.
func TestTracer_UnhealthyRecordsError(t *testing.T) {
	tests := []struct {
		result health.Result
		status string
	}{
		{health.Unhealthy("connection refused"), "unhealthy"},
		{health.Unknown("not sampled"), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			recorder, tr := newRecordingTracer()

			_, span := tr.StartSpan(context.Background(), CheckMeta{Name: "database"})
			tr.EndSpan(span, tc.result)

			ended := recorder.Ended()[0]
			if ended.Status().Code != codes.Error {
				t.Errorf("expected status Error, got %v", ended.Status().Code)
			}
			if ended.Status().Description != tc.result.Message {
				t.Errorf("expected description %q, got %q", tc.result.Message, ended.Status().Description)
			}
			if v := spanAttrs(ended)["check.status"].AsString(); v != tc.status {
				t.Errorf("expected check.status=%q, got %q", tc.status, v)
			}
		})
	}
}

// TestTracer_ContextPropagation verifies the returned context carries the span.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder, tr := newRecordingTracer()

	ctx, parent := tr.StartSpan(context.Background(), CheckMeta{Name: "outer"})
	_, child := tr.StartSpan(ctx, CheckMeta{Name: "inner"})
	tr.EndSpan(child, health.Healthy())
	tr.EndSpan(parent, health.Healthy())

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	inner, outer := spans[0], spans[1]
	if inner.Parent().SpanID() != outer.SpanContext().SpanID() {
		t.Error("inner span should be a child of outer span")
	}
}
