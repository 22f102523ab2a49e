// Package clock holds the context-aware timing helpers used by the pollers and the retry executor.
package clock

import (
	"context"
	"time"
)

// Wait blocks for d unless ctx ends first, in which case ctx.Err() is returned.
// A non-positive d returns the current ctx state without blocking.
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
