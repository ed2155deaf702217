package resilience

import (
	"context"
	"time"
)

// Run runs op with a deadline of d and returns its value.
//
// The operation runs in its own goroutine. When the deadline passes it
// receives a cancelled context and is expected to return promptly; its late
// result is discarded.
//
// Run returns ErrTimeout once its own deadline has passed, even if op has
// also returned by then. When the parent context ends first, by cancellation
// or by an earlier deadline of its own, Run returns the parent's error.
func Run[T any](parent context.Context, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if ctx.Err() == nil {
			return out.value, out.err
		}
	case <-ctx.Done():
	}

	var zero T
	if err := parent.Err(); err != nil {
		return zero, err
	}
	return zero, ErrTimeout
}
