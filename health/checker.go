package health

import (
	"context"
	"time"
)

// Result contains the outcome of a single health check.
//
// A Result is a value: the helpers below return modified copies and never
// mutate the receiver.
type Result struct {
	// Status is the health status.
	Status Status `json:"status"`

	// Message provides additional context about the status.
	Message string `json:"message,omitempty"`

	// DurationMS is the measured latency of the check in milliseconds.
	// Nil when the check did not record one.
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

// Healthy creates a healthy result without a message.
func Healthy() Result {
	return Result{Status: StatusHealthy}
}

// HealthyWithMessage creates a healthy result carrying a message.
func HealthyWithMessage(message string) Result {
	return Result{Status: StatusHealthy, Message: message}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string) Result {
	return Result{Status: StatusUnhealthy, Message: message}
}

// Unknown creates a result whose status could not be determined.
func Unknown(message string) Result {
	return Result{Status: StatusUnknown, Message: message}
}

// WithDuration returns a copy of r with the duration recorded in whole
// milliseconds.
func (r Result) WithDuration(d time.Duration) Result {
	ms := d.Milliseconds()
	r.DurationMS = &ms
	return r
}

// Duration returns the recorded duration, if any.
func (r Result) Duration() (time.Duration, bool) {
	if r.DurationMS == nil {
		return 0, false
	}
	return time.Duration(*r.DurationMS) * time.Millisecond, true
}

// Checker is the interface for health checks.
//
// Contract:
//   - Concurrency: Check may be called by many readiness requests at once.
//   - Context: Check should honor cancellation/deadlines.
//   - Errors: Check reports failure through the returned Result and must not
//     panic. Routes converts panics anyway, but a checker should not rely on it.
type Checker interface {
	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as Checkers.
type CheckerFunc func(ctx context.Context) Result

// Check calls f(ctx).
func (f CheckerFunc) Check(ctx context.Context) Result {
	return f(ctx)
}

// Middleware decorates the checker registered under name.
type Middleware func(name string, next Checker) Checker
