// Package observe provides logging, tracing and metrics for health checks.
//
// It is an instrumentation library: an Observer owns the OpenTelemetry
// providers and a structured JSON logger, and NewCheckMiddleware turns an
// Observer into a health.Middleware that records one span, one set of
// measurements and one log line per check invocation.
//
// # Metrics
//
//   - health.check.total: every invocation
//   - health.check.unhealthy: invocations that did not report healthy
//   - health.check.duration_ms: invocation latency
//
// All three carry check.name and check.status attributes, plus check.kind
// when the middleware was given the kind of each check.
package observe
