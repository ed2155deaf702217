package health

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Routes is the immutable snapshot produced by a Builder. It serves the
// liveness and readiness requests and is safe for concurrent use.
type Routes struct {
	service string
	version string
	checks  map[string]Checker
	config  Config
}

// Service returns the service name.
func (r *Routes) Service() string {
	return r.service
}

// Version returns the service version, or "" when none was configured.
func (r *Routes) Version() string {
	return r.version
}

// Config returns the readiness configuration with defaults applied.
func (r *Routes) Config() Config {
	return r.config
}

// Names returns the registered check names in sorted order.
func (r *Routes) Names() []string {
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Liveness reports that the process is up. No check is run.
func (r *Routes) Liveness(ctx context.Context) Response {
	return NewResponse(r.service, r.version, r.config.Now())
}

// Readiness runs every registered check once and merges the results.
func (r *Routes) Readiness(ctx context.Context) Response {
	resp := NewResponse(r.service, r.version, r.config.Now())
	if len(r.checks) == 0 {
		return resp
	}

	if r.config.Sequential {
		for name, checker := range r.checks {
			resp.merge(name, checker.Check(ctx), r.config.Unknown)
		}
		return resp
	}

	type namedResult struct {
		name   string
		result Result
	}
	results := make(chan namedResult, len(r.checks))

	var g errgroup.Group
	if r.config.MaxConcurrency > 0 {
		g.SetLimit(r.config.MaxConcurrency)
	}
	for name, checker := range r.checks {
		g.Go(func() error {
			results <- namedResult{name: name, result: checker.Check(ctx)}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	for nr := range results {
		resp.merge(nr.name, nr.result, r.config.Unknown)
	}
	return resp
}
