// Package config loads the YAML configuration of the health service.
package config

import (
	"time"

	"github.com/pleme-io/pleme-health/health"
	"github.com/pleme-io/pleme-health/observe"
)

// Check types.
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
	TypeRedis    = "redis"
	TypeMongoDB  = "mongodb"
	TypeHTTP     = "http"
	TypeMemory   = "memory"
)

// Config is the root of the configuration file.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Server    ServerConfig    `yaml:"server"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Checks    []CheckConfig   `yaml:"checks" validate:"dive"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Observe   ObserveConfig   `yaml:"observe"`
}

// ServiceConfig identifies the service in every response.
type ServiceConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Version string `yaml:"version"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gte=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// ReadinessConfig tunes readiness evaluation.
type ReadinessConfig struct {
	CheckTimeout    time.Duration `yaml:"check_timeout" validate:"gte=0"`
	Sequential      bool          `yaml:"sequential"`
	MaxConcurrency  int           `yaml:"max_concurrency" validate:"gte=0"`
	UnknownNotReady bool          `yaml:"unknown_not_ready"`
}

// CheckConfig declares one readiness check. Which fields apply depends on
// Type.
type CheckConfig struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required,oneof=postgres sqlite redis mongodb http memory"`

	// postgres
	DSN string `yaml:"dsn,omitempty"`

	// sqlite
	Path string `yaml:"path,omitempty"`

	// redis, mongodb, http
	URL string `yaml:"url,omitempty"`

	// http
	ExpectedStatus int               `yaml:"expected_status,omitempty" validate:"omitempty,gte=100,lte=599"`
	Headers        map[string]string `yaml:"headers,omitempty"`

	// memory
	WarningThreshold  float64 `yaml:"warning_threshold,omitempty" validate:"gte=0,lte=1"`
	CriticalThreshold float64 `yaml:"critical_threshold,omitempty" validate:"gte=0,lte=1"`
	MaxAllocBytes     uint64  `yaml:"max_alloc_bytes,omitempty"`
}

// SecretsConfig configures secret providers by name, for example
// file: {dir: /run/secrets}.
type SecretsConfig struct {
	Strict    bool                      `yaml:"strict"`
	Providers map[string]map[string]any `yaml:"providers,omitempty"`
}

// ObserveConfig mirrors observe.Config without the service identity.
type ObserveConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// TracingConfig selects the span exporter and sampling ratio.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

// MetricsConfig selects the metrics exporter.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// Default returns the configuration used for keys absent from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Readiness: ReadinessConfig{
			CheckTimeout: health.DefaultCheckTimeout,
		},
		Secrets: SecretsConfig{Strict: true},
		Observe: ObserveConfig{
			Tracing: TracingConfig{Exporter: "none", SamplePct: 1.0},
			Metrics: MetricsConfig{Exporter: "none"},
			Logging: LoggingConfig{Enabled: true, Level: "info"},
		},
	}
}

// HealthConfig returns the readiness settings for health.Builder.WithConfig.
func (c *Config) HealthConfig() health.Config {
	policy := health.UnknownIgnored
	if c.Readiness.UnknownNotReady {
		policy = health.UnknownNotReady
	}
	return health.Config{
		CheckTimeout:   c.Readiness.CheckTimeout,
		Sequential:     c.Readiness.Sequential,
		MaxConcurrency: c.Readiness.MaxConcurrency,
		Unknown:        policy,
	}
}

// ObserverConfig returns the observer configuration for the service.
func (c *Config) ObserverConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Service.Name,
		Version:     c.Service.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing.Enabled,
			Exporter:  c.Observe.Tracing.Exporter,
			SamplePct: c.Observe.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics.Enabled,
			Exporter: c.Observe.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.Logging.Enabled,
			Level:   c.Observe.Logging.Level,
		},
	}
}

// CheckKinds maps each check name to its type.
func (c *Config) CheckKinds() map[string]string {
	kinds := make(map[string]string, len(c.Checks))
	for _, check := range c.Checks {
		kinds[check.Name] = check.Type
	}
	return kinds
}
