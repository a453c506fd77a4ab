package perf_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"groovebot/model"
	"groovebot/perf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryPolicy(maxRetries uint64) model.RetrySettings {
	return model.RetrySettings{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestRetryBound(t *testing.T) {
	t.Parallel()
	handler := perf.NewRetryHandler(fastRetryPolicy(2))

	calls := 0
	final := errors.New("still failing")
	err := handler.Execute(context.Background(), func() error {
		calls++
		return final
	}, nil)

	// Initial attempt plus exactly MaxRetries retries; last error surfaced.
	require.ErrorIs(t, err, final)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	t.Parallel()
	handler := perf.NewRetryHandler(fastRetryPolicy(5))

	calls := 0
	err := handler.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsPredicate(t *testing.T) {
	t.Parallel()
	handler := perf.NewRetryHandler(fastRetryPolicy(5))

	calls := 0
	fatal := errors.New("bad request")
	err := handler.Execute(context.Background(), func() error {
		calls++
		return fatal
	}, func(err error) bool { return false })

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestRetryContextCancel(t *testing.T) {
	t.Parallel()
	handler := perf.NewRetryHandler(model.RetrySettings{
		MaxRetries:      10,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := handler.Execute(ctx, func() error { return errors.New("transient") }, nil)
	require.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	assert.True(t, perf.IsTransient(errors.New("dial tcp: connection refused")))
	assert.True(t, perf.IsTransient(errors.New("HTTP 503 Service Unavailable")))
	assert.False(t, perf.IsTransient(errors.New("unknown track id")))
	assert.False(t, perf.IsTransient(perf.ErrCircuitOpen))
	assert.False(t, perf.IsTransient(perf.ErrQueueTimeout))
	assert.False(t, perf.IsTransient(nil))
}
