package perf_test

import (
	"errors"
	"testing"
	"time"

	"groovebot/perf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("dependency down")

func TestBreakerOpensAfterThreshold(t *testing.T) {
	t.Parallel()
	breaker := perf.NewCircuitBreaker("dep", 3, 2, time.Minute)

	fail := func() error { return errDown }
	for i := 0; i < 3; i++ {
		require.Equal(t, perf.StateClosed, breaker.State())
		require.ErrorIs(t, breaker.Execute(fail), errDown)
	}
	assert.Equal(t, perf.StateOpen, breaker.State())

	// Open rejects without invoking the wrapped function.
	invoked := false
	err := breaker.Execute(func() error {
		invoked = true
		return nil
	})
	require.ErrorIs(t, err, perf.ErrCircuitOpen)
	assert.False(t, invoked)

	stats := breaker.Stats()
	assert.Equal(t, uint64(3), stats.Total)
	assert.Equal(t, uint64(3), stats.Failures)
	assert.Equal(t, uint64(1), stats.Rejected)
}

func TestBreakerHalfOpenCloses(t *testing.T) {
	t.Parallel()
	breaker := perf.NewCircuitBreaker("dep", 2, 2, 50*time.Millisecond)

	breaker.Execute(func() error { return errDown })
	breaker.Execute(func() error { return errDown })
	require.Equal(t, perf.StateOpen, breaker.State())

	time.Sleep(80 * time.Millisecond)

	// First call after the timeout is the half-open trial.
	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, perf.StateHalfOpen, breaker.State())

	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, perf.StateClosed, breaker.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()
	breaker := perf.NewCircuitBreaker("dep", 2, 2, 50*time.Millisecond)

	breaker.Execute(func() error { return errDown })
	breaker.Execute(func() error { return errDown })
	require.Equal(t, perf.StateOpen, breaker.State())

	time.Sleep(80 * time.Millisecond)
	require.ErrorIs(t, breaker.Execute(func() error { return errDown }), errDown)
	assert.Equal(t, perf.StateOpen, breaker.State())
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	t.Parallel()
	breaker := perf.NewCircuitBreaker("dep", 3, 1, time.Minute)

	breaker.Execute(func() error { return errDown })
	breaker.Execute(func() error { return errDown })
	breaker.Execute(func() error { return nil }) // streak broken
	breaker.Execute(func() error { return errDown })
	breaker.Execute(func() error { return errDown })

	// Only 2 consecutive failures since the success, so still closed.
	assert.Equal(t, perf.StateClosed, breaker.State())
}

func TestBreakerRegistry(t *testing.T) {
	t.Parallel()
	registry := perf.NewBreakerRegistry(5, 2, time.Minute)

	a := registry.Get("storage")
	b := registry.Get("storage")
	assert.Same(t, a, b)

	registry.Get("voice")
	assert.Len(t, registry.Snapshot(), 2)
}
