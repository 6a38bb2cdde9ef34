package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(2, time.Minute)
	b.now = func() time.Time { return now }

	down := func(context.Context) error { return Transient(errors.New("down"), 503) }
	ctx := context.Background()

	require.Error(t, b.Do(ctx, down))
	assert.Equal(t, Closed, b.State())
	require.Error(t, b.Do(ctx, down))
	assert.Equal(t, Open, b.State())

	var called bool
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	require.NoError(t, b.Do(ctx, func(context.Context) error { return nil }))
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(1, time.Second)
	b.now = func() time.Time { return now }
	ctx := context.Background()
	down := func(context.Context) error { return Transient(errors.New("down"), 500) }

	require.Error(t, b.Do(ctx, down))
	assert.Equal(t, Open, b.State())

	now = now.Add(2 * time.Second)
	require.Error(t, b.Do(ctx, down))
	assert.Equal(t, Open, b.State())
	assert.ErrorIs(t, b.Do(ctx, down), ErrOpen)
}

func TestBreaker_FinalErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	b := NewBreaker(1, time.Minute)
	rejected := errors.New("rejected")
	for range 5 {
		assert.ErrorIs(t, b.Do(context.Background(), func(context.Context) error { return rejected }), rejected)
	}
	assert.Equal(t, Closed, b.State())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
