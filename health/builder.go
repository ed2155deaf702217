package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pleme-io/pleme-health/resilience"
)

// Builder accumulates a service identity and named checks, then produces an
// immutable Routes value. A Builder is single-use: any call after Build
// panics with ErrBuilderConsumed.
type Builder struct {
	service     string
	version     string
	checks      map[string]Checker
	config      Config
	middlewares []Middleware
	built       bool
}

// NewBuilder creates a builder for a versioned service.
func NewBuilder(service, version string) *Builder {
	return &Builder{
		service: service,
		version: version,
		checks:  make(map[string]Checker),
	}
}

// NewBuilderWithoutVersion creates a builder for a service with no version.
func NewBuilderWithoutVersion(service string) *Builder {
	return NewBuilder(service, "")
}

// AddCheck registers checker under name. Registering the same name again
// replaces the earlier checker.
func (b *Builder) AddCheck(name string, checker Checker) *Builder {
	b.mustNotBeBuilt()
	b.checks[name] = checker
	return b
}

// WithConfig replaces the readiness configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.mustNotBeBuilt()
	b.config = config
	return b
}

// Use appends middlewares. The first middleware is the outermost.
func (b *Builder) Use(middlewares ...Middleware) *Builder {
	b.mustNotBeBuilt()
	b.middlewares = append(b.middlewares, middlewares...)
	return b
}

// Build consumes the builder and returns the routes snapshot.
func (b *Builder) Build() *Routes {
	b.mustNotBeBuilt()
	b.built = true

	routes := newRoutes(b.service, b.version, b.checks, b.config, b.middlewares)
	b.checks = nil
	b.middlewares = nil
	return routes
}

func (b *Builder) mustNotBeBuilt() {
	if b.built {
		panic(ErrBuilderConsumed)
	}
}

// NewRoutes builds routes directly from a check map, without a Builder.
// The map is copied; later changes to it are not observed.
func NewRoutes(service, version string, checks map[string]Checker, config ...Config) *Routes {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	return newRoutes(service, version, checks, cfg, nil)
}

func newRoutes(service, version string, checks map[string]Checker, config Config, middlewares []Middleware) *Routes {
	config = config.withDefaults()

	wrapped := make(map[string]Checker, len(checks))
	for name, checker := range checks {
		c := guard(checker, config.CheckTimeout)
		for i := len(middlewares) - 1; i >= 0; i-- {
			c = middlewares[i](name, c)
		}
		if len(middlewares) > 0 {
			c = recoverPanics(c)
		}
		wrapped[name] = c
	}

	return &Routes{
		service: service,
		version: version,
		checks:  wrapped,
		config:  config,
	}
}

// guard bounds checker by timeout and converts panics into unhealthy results.
// A check cut short by the request's own deadline or cancellation reports
// that error rather than the check timeout.
func guard(checker Checker, timeout time.Duration) Checker {
	return CheckerFunc(func(ctx context.Context) Result {
		result, err := resilience.Run(ctx, timeout, func(ctx context.Context) (result Result, err error) {
			defer recoverInto(&result, &err)
			return checker.Check(ctx), nil
		})

		switch {
		case err == nil, errors.Is(err, ErrCheckPanicked):
			return result
		case errors.Is(err, resilience.ErrTimeout):
			return Unhealthy(fmt.Sprintf("check timed out after %s", timeout))
		default:
			return Unhealthy(fmt.Sprintf("check aborted: %v", err))
		}
	})
}

// recoverPanics contains panics raised by middlewares, which run outside
// guard.
func recoverPanics(checker Checker) Checker {
	return CheckerFunc(func(ctx context.Context) (result Result) {
		defer recoverInto(&result, new(error))
		return checker.Check(ctx)
	})
}

func recoverInto(result *Result, err *error) {
	if v := recover(); v != nil {
		*result = Unhealthy(fmt.Sprintf("check panicked: %v", v))
		*err = ErrCheckPanicked
	}
}
