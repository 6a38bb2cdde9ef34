package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{Attempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond, Factor: 2}
}

func TestRetry_SucceedsAfterTransient(t *testing.T) {
	t.Parallel()

	var calls int
	err := Retry(context.Background(), fastBackoff(3), "send", func(context.Context) error {
		calls++
		if calls < 3 {
			return Transient(errors.New("busy"), 503)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnFinalError(t *testing.T) {
	t.Parallel()

	final := errors.New("bad request")
	var calls int
	err := Retry(context.Background(), fastBackoff(5), "send", func(context.Context) error {
		calls++
		return final
	})
	assert.ErrorIs(t, err, final)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls int
	err := Retry(context.Background(), fastBackoff(4), "send", func(context.Context) error {
		calls++
		return Transient(errors.New("down"), 502)
	})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 4, calls)
}

func TestRetry_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := Retry(ctx, Backoff{Attempts: 5, Initial: time.Hour, Max: time.Hour}, "send", func(context.Context) error {
		calls++
		cancel()
		return Transient(errors.New("down"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	b := Backoff{Attempts: 5, Initial: 100 * time.Millisecond, Max: 300 * time.Millisecond, Factor: 2}
	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 300*time.Millisecond, b.Delay(2))
	assert.Equal(t, 300*time.Millisecond, b.Delay(6))

	b.Jitter = 0.5
	for range 50 {
		d := b.Delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestBackoffDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBackoff(), Backoff{Jitter: 0.2}.normalized())
}
