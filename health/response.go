package health

import (
	"net/http"
	"time"
)

// Response is the body served by the liveness and readiness endpoints.
//
// A Response is built fresh for every request and is not safe for
// concurrent mutation; Routes serializes all AddCheck calls.
type Response struct {
	Status    Status            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]Result `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// NewResponse creates a healthy response with no checks.
func NewResponse(service, version string, now time.Time) Response {
	return Response{
		Status:    StatusHealthy,
		Service:   service,
		Checks:    make(map[string]Result),
		Timestamp: now.UTC(),
		Version:   version,
	}
}

// AddCheck records result under name and updates the aggregate status.
// An unhealthy result flips the response to unhealthy. A result added under
// a name already present replaces the earlier one, and the aggregate is
// recomputed from the remaining entries.
func (r *Response) AddCheck(name string, result Result) {
	r.merge(name, result, UnknownIgnored)
}

func (r *Response) merge(name string, result Result, policy UnknownPolicy) {
	if r.Checks == nil {
		r.Checks = make(map[string]Result)
	}
	_, replaced := r.Checks[name]
	r.Checks[name] = result

	if replaced {
		r.Status = StatusHealthy
		for _, existing := range r.Checks {
			r.apply(existing.Status, policy)
		}
		return
	}
	r.apply(result.Status, policy)
}

func (r *Response) apply(status Status, policy UnknownPolicy) {
	switch status {
	case StatusUnhealthy:
		r.Status = StatusUnhealthy
	case StatusUnknown:
		// Unknown never overrides unhealthy.
		if policy == UnknownNotReady && r.Status == StatusHealthy {
			r.Status = StatusUnknown
		}
	}
}

// IsHealthy reports whether the aggregate status is healthy.
func (r Response) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// StatusCode maps the aggregate status to an HTTP status code.
func (r Response) StatusCode() int {
	if r.IsHealthy() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
