package health

import "time"

// DefaultCheckTimeout bounds a single check when Config.CheckTimeout is unset.
const DefaultCheckTimeout = 5 * time.Second

// UnknownPolicy decides how an unknown check result affects readiness.
type UnknownPolicy int

const (
	// UnknownIgnored leaves the aggregate status untouched by unknown results.
	UnknownIgnored UnknownPolicy = iota

	// UnknownNotReady turns an otherwise healthy aggregate into unknown,
	// which is served with 503.
	UnknownNotReady
)

// Config configures how Routes runs readiness checks.
type Config struct {
	// CheckTimeout is the maximum time a single check may take. A check that
	// exceeds it is reported unhealthy.
	// Default: 5 seconds
	CheckTimeout time.Duration

	// Sequential runs checks one after another instead of concurrently.
	// Default: false
	Sequential bool

	// MaxConcurrency caps the number of checks running at once for a single
	// readiness request. Zero means no cap.
	MaxConcurrency int

	// Unknown selects how unknown results affect the aggregate status.
	// Default: UnknownIgnored
	Unknown UnknownPolicy

	// Now returns the time stamped on responses.
	// Default: time.Now
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = DefaultCheckTimeout
	}
	if c.MaxConcurrency < 0 {
		c.MaxConcurrency = 0
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
