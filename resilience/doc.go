// Package resilience bounds the time spent waiting on dependency checks.
//
// Run executes an operation with a deadline and reports ErrTimeout when the
// deadline wins, so a hung dependency cannot hang its caller:
//
//	v, err := resilience.Run(ctx, 2*time.Second, func(ctx context.Context) (int, error) {
//	    return pingDatabase(ctx)
//	})
//	if errors.Is(err, resilience.ErrTimeout) {
//	    // report the dependency as unhealthy
//	}
package resilience
