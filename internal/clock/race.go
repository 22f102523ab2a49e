package clock

import (
	"context"
	"time"
)

// Race runs fn under a deadline of d and returns as soon as either fn finishes
// or the deadline passes. When the deadline wins, ctx.Err() of the derived
// context is returned and fn keeps running in the background until it observes
// cancellation. A non-positive d disables the deadline.
func Race[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
