package perf

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"groovebot/model"

	"github.com/cenkalti/backoff/v4"
)

// RetryHandler re-invokes failed operations with jittered exponential
// backoff. It carries no timeout of its own; each attempt ends when the
// wrapped operation returns.
type RetryHandler struct {
	policy model.RetrySettings
}

// NewRetryHandler creates a handler with the given policy.
func NewRetryHandler(policy model.RetrySettings) *RetryHandler {
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = 5 * time.Second
	}
	if policy.Multiplier <= 1 {
		policy.Multiplier = 2.0
	}
	return &RetryHandler{policy: policy}
}

// Execute runs op, retrying up to MaxRetries times (initial attempt plus
// MaxRetries retries). shouldRetry == nil retries everything; otherwise a
// false verdict stops immediately. The last error is always surfaced.
func (h *RetryHandler) Execute(ctx context.Context, op func() error, shouldRetry func(error) bool) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(h.policy.InitialInterval),
		backoff.WithMaxInterval(h.policy.MaxInterval),
		backoff.WithMultiplier(h.policy.Multiplier),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMaxElapsedTime(0),
	), h.policy.MaxRetries)

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, backoff.WithContext(b, ctx))
}

// IsTransient classifies network/timeout-class errors as retryable.
// Admission rejections never reach here; this only sees execution errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQueueTimeout) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "timed out", "connection reset", "connection refused", "temporarily unavailable", "rate limit", "502", "503", "504"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
