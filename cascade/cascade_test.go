package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constTier(name string, out string, err error) Tier[int, string] {
	return NewTier(name, 0, func(ctx context.Context, in int) (string, error) {
		return out, err
	})
}

func TestRunReturnsFirstSuccess(t *testing.T) {
	out, name, err := Run(context.Background(), 1,
		constTier("first", "", errors.New("boom")),
		constTier("second", "ok", nil),
		constTier("third", "never", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "second", name)
}

func TestRunSkipsUnavailable(t *testing.T) {
	out, name, err := Run(context.Background(), 1,
		constTier("oracle", "", ErrUnavailable),
		constTier("fallback", "fallback", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)
	assert.Equal(t, "fallback", name)
}

func TestRunRecoversPanics(t *testing.T) {
	panicking := NewTier("panics", 0, func(ctx context.Context, in int) (string, error) {
		var m map[string]int
		m["x"] = in
		return "unreachable", nil
	})
	out, name, err := Run(context.Background(), 1, panicking, constTier("safe", "safe", nil))
	require.NoError(t, err)
	assert.Equal(t, "safe", out)
	assert.Equal(t, "safe", name)
}

func TestRunAbandonsHungTier(t *testing.T) {
	hung := NewTier("hung", 50*time.Millisecond, func(ctx context.Context, in int) (string, error) {
		// ignores ctx on purpose
		time.Sleep(2 * time.Second)
		return "late", nil
	})
	started := time.Now()
	out, name, err := Run(context.Background(), 1, hung, constTier("next", "next", nil))
	require.NoError(t, err)
	assert.Equal(t, "next", out)
	assert.Equal(t, "next", name)
	assert.Less(t, time.Since(started), time.Second)
}

func TestRunExhausted(t *testing.T) {
	_, name, err := Run(context.Background(), 1,
		constTier("a", "", errors.New("a failed")),
		constTier("b", "", ErrUnavailable),
	)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, name)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	flaky := NewTier("flaky", 0, func(ctx context.Context, in int) (string, error) {
		calls.Add(1)
		return "", errors.New("down")
	}).WithBreaker(2, time.Minute)

	for i := 0; i < 5; i++ {
		out, _, err := Run(context.Background(), i, flaky, constTier("fallback", "fallback", nil))
		require.NoError(t, err)
		assert.Equal(t, "fallback", out)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestBreakerIgnoresUnavailable(t *testing.T) {
	var calls atomic.Int32
	offline := NewTier("offline", 0, func(ctx context.Context, in int) (string, error) {
		calls.Add(1)
		return "", ErrUnavailable
	}).WithBreaker(1, time.Minute)

	for i := 0; i < 3; i++ {
		_, _, _ = Run(context.Background(), i, offline, constTier("fallback", "fallback", nil))
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestBreakerIgnoresContentFailures(t *testing.T) {
	var calls atomic.Int32
	picky := NewTier("picky", 0, func(ctx context.Context, in int) (string, error) {
		calls.Add(1)
		if in < 5 {
			return "", fmt.Errorf("%w: unknown ids", ErrContent)
		}
		return "picked", nil
	}).WithBreaker(1, time.Minute)

	for i := 0; i < 5; i++ {
		out, name, err := Run(context.Background(), i, picky, constTier("fallback", "fallback", nil))
		require.NoError(t, err)
		assert.Equal(t, "fallback", out)
		assert.Equal(t, "fallback", name)
	}
	out, name, err := Run(context.Background(), 5, picky, constTier("fallback", "fallback", nil))
	require.NoError(t, err)
	assert.Equal(t, "picked", out)
	assert.Equal(t, "picky", name)
	assert.Equal(t, int32(6), calls.Load())
}

func TestOpenBreakerIsNotReported(t *testing.T) {
	var reported []string
	previous := captureFailure
	captureFailure = func(tier string, err error) { reported = append(reported, tier) }
	t.Cleanup(func() { captureFailure = previous })

	flaky := NewTier("flaky", 0, func(ctx context.Context, in int) (string, error) {
		return "", errors.New("down")
	}).WithBreaker(1, time.Minute)

	for i := 0; i < 4; i++ {
		out, _, err := Run(context.Background(), i, flaky, constTier("fallback", "fallback", nil))
		require.NoError(t, err)
		assert.Equal(t, "fallback", out)
	}
	assert.Equal(t, []string{"flaky"}, reported)
}

func TestRunLocalTierIgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, name, err := Run(ctx, 1,
		NewTier("remote", time.Second, func(ctx context.Context, in int) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
		constTier("local", "local", nil),
	)
	require.NoError(t, err)
	assert.Equal(t, "local", out)
	assert.Equal(t, "local", name)
}
