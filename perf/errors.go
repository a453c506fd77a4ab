// Package perf holds the load-hardening pieces that sit between command
// admission and execution: a TTL+LRU cache, a bounded priority request
// queue, per-dependency circuit breakers, a backoff retry handler, and the
// in-memory performance monitor behind the stats command.
package perf

import "errors"

var (
	// ErrQueueTimeout marks a queued request that exceeded its timeout.
	// Distinct from an execution failure so callers can tell them apart.
	ErrQueueTimeout = errors.New("request queue: timed out waiting for execution")

	// ErrQueueCleared marks pending requests rejected by Clear.
	ErrQueueCleared = errors.New("request queue: cleared before execution")

	// ErrCircuitOpen is returned without invoking the wrapped call while a
	// breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker: open, call rejected")
)
