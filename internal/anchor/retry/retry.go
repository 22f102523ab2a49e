// Package retry runs ledger and content-store calls with a per-attempt timeout
// and a fixed-delay retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/clock"
	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 5
	defaultRetryDelay = time.Second
	defaultTimeout    = 30 * time.Second
)

// Config controls attempts of a single operation.
type Config struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
	// Timeout bounds each attempt individually. Zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
		Timeout:    defaultTimeout,
	}
}

// Executor applies a Config to operations.
type Executor struct {
	cfg    Config
	logger *zap.Logger
}

// New constructs an Executor. Negative values in cfg are treated as zero.
func New(cfg Config, logger *zap.Logger) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{cfg: cfg, logger: logger}
}

// Config returns the policy of the executor.
func (e *Executor) Config() Config {
	return e.cfg
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs fn until it succeeds, returns a permanent error, or retries are exhausted.
func (e *Executor) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	_, err := Value(ctx, e, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Value is Do for operations producing a result.
func Value[T any](ctx context.Context, e *Executor, operation string, fn func(context.Context) (T, error)) (T, error) {
	var (
		result    T
		attempts  int
		permanent bool
	)

	attempt := func() error {
		attempts++
		v, err := clock.Race(ctx, e.cfg.Timeout, fn)
		if err == nil {
			result = v
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			permanent = true
			return backoff.Permanent(ctxErr)
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s exceeded %s", model.ErrTimeout, operation, e.cfg.Timeout)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		e.logger.Warn("operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.cfg.RetryDelay), uint64(e.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		var zero T
		if permanent || ctx.Err() != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%s: after %d retries: %w", operation, attempts-1, err)
	}
	return result, nil
}
