// Package health serves liveness and readiness endpoints over HTTP.
//
// A service describes its dependencies as named Checkers, collects them with
// a Builder and serves the resulting Routes. Liveness only reports that the
// process answers; readiness runs every check and merges the results into a
// single Response.
//
// # Core Concepts
//
// A Checker produces one Result per invocation. Results carry a Status
// (Healthy, Unhealthy or Unknown), an optional message and an optional
// duration. Checkers report failure through their Result: Routes guards each
// invocation with a timeout and converts panics, so one misbehaving check
// cannot abort the others.
//
// # Basic Usage
//
//	routes := health.NewBuilder("orders", "2.3.0").
//	    AddCheck("database", checks.Postgres(db)).
//	    AddCheck("cache", checks.Redis("redis://localhost:6379/0")).
//	    AddCheck("queue", health.CheckerFunc(func(ctx context.Context) health.Result {
//	        return health.Healthy()
//	    })).
//	    Build()
//
// Adding a check under an existing name replaces the earlier one.
//
// # Aggregation
//
// Readiness starts Healthy. Any Unhealthy result turns the aggregate
// Unhealthy for the rest of the request. Unknown results are ignored unless
// Config.Unknown is UnknownNotReady. Checks run concurrently by default and
// their results are merged through a single collection point.
//
// # HTTP Endpoints
//
//	// Any router
//	mux.Handle("/health", routes.LivenessHandler())
//	mux.Handle("/ready", routes.ReadinessHandler())
//
//	// chi
//	r.Mount("/", routes.Router())
//
// GET /health always answers 200. GET /ready answers 200 when the aggregate
// is healthy and 503 otherwise, always with the JSON body.
package health
