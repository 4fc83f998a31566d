package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleep struct {
	waits []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func failingTimes(n int) (func(context.Context) error, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if calls <= n {
			return fmt.Errorf("attempt %d failed", calls)
		}
		return nil
	}, &calls
}

func TestDoSucceedsFirstTime(t *testing.T) {
	t.Parallel()

	rec := &recordedSleep{}
	a := New(DefaultMaxRetries, DefaultBaseDelay, nil, WithSleep(rec.sleep))
	fn, calls := failingTimes(0)

	require.NoError(t, a.Do(context.Background(), "update", fn))
	assert.Equal(t, 1, *calls)
	assert.Empty(t, rec.waits)
}

func TestDoRecoversAfterThreeFailures(t *testing.T) {
	t.Parallel()

	rec := &recordedSleep{}
	a := New(DefaultMaxRetries, DefaultBaseDelay, nil, WithSleep(rec.sleep))
	fn, calls := failingTimes(3)

	require.NoError(t, a.Do(context.Background(), "update", fn))
	assert.Equal(t, 4, *calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}, rec.waits)
}

func TestDoGivesUpAfterSixAttempts(t *testing.T) {
	t.Parallel()

	rec := &recordedSleep{}
	a := New(DefaultMaxRetries, DefaultBaseDelay, nil, WithSleep(rec.sleep))
	fn, calls := failingTimes(100)

	err := a.Do(context.Background(), "move", fn)
	require.Error(t, err)
	assert.Equal(t, "attempt 6 failed", err.Error())
	assert.Equal(t, 6, *calls)
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 6 * time.Second, 8 * time.Second, 10 * time.Second,
	}, rec.waits)
}

func TestDoReturnsErrorUnchanged(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	a := New(1, time.Millisecond, nil, WithSleep((&recordedSleep{}).sleep))

	err := a.Do(context.Background(), "update", func(context.Context) error { return sentinel })
	assert.Same(t, sentinel, err)
}

func TestDoStopsWhenSleepIsCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(DefaultMaxRetries, time.Hour, nil)
	fn, calls := failingTimes(100)

	err := a.Do(ctx, "update", fn)
	require.Error(t, err)
	assert.Equal(t, 1, *calls)
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		maxRetries int
		baseDelay  time.Duration
		calls      int
		waits      []time.Duration
	}{
		{"zero retries runs once", 0, time.Second, 1, nil},
		{"negative retries use default", -1, time.Second, 6, []time.Duration{
			1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
		}},
		{"zero delay uses default", 1, 0, 2, []time.Duration{DefaultBaseDelay}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordedSleep{}
			a := New(tt.maxRetries, tt.baseDelay, nil, WithSleep(rec.sleep))
			fn, calls := failingTimes(100)

			require.Error(t, a.Do(context.Background(), "update", fn))
			assert.Equal(t, tt.calls, *calls)
			assert.Equal(t, tt.waits, rec.waits)
		})
	}
}
