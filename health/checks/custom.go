package checks

import (
	"context"

	"github.com/pleme-io/pleme-health/health"
)

// Custom wraps fn as a checker. The result of fn is returned unchanged.
func Custom(fn func(ctx context.Context) health.Result) health.Checker {
	return health.CheckerFunc(fn)
}
