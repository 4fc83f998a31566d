// Package retry runs task tracker mutations with bounded backoff.
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 2 * time.Second
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Applier retries a single mutation, waiting attempt × baseDelay between
// attempts, and returns the last error unchanged once retries run out.
type Applier struct {
	maxRetries int
	baseDelay  time.Duration
	sleep      SleepFunc
	log        *zap.Logger
}

// Option customizes an Applier
type Option func(*Applier)

// WithSleep replaces the real timer, mostly for tests
func WithSleep(fn SleepFunc) Option {
	return func(a *Applier) {
		a.sleep = fn
	}
}

// New creates an Applier. A negative maxRetries or a non-positive baseDelay
// falls back to the default; zero retries runs the mutation once.
func New(maxRetries int, baseDelay time.Duration, log *zap.Logger, opts ...Option) *Applier {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &Applier{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
		log:        log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Do runs fn, retrying on error. Attempts are sequential.
func (a *Applier) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for attempt := 1; err != nil && attempt <= a.maxRetries; attempt++ {
		wait := time.Duration(attempt) * a.baseDelay
		a.log.Warn("mutation failed, retrying",
			zap.String("mutation", name),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if sleepErr := a.sleep(ctx, wait); sleepErr != nil {
			return err
		}
		err = fn(ctx)
	}
	if err != nil {
		a.log.Error("mutation failed, giving up", zap.String("mutation", name), zap.Error(err))
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
