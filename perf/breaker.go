package perf

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker state machine position.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// BreakerStats is a point-in-time snapshot of one breaker's counters.
type BreakerStats struct {
	Name      string
	State     BreakerState
	Total     uint64
	Successes uint64
	Failures  uint64
	Rejected  uint64
}

// CircuitBreaker guards one named external dependency.
//
// CLOSED trips to OPEN after failureThreshold consecutive failures; OPEN
// rejects without calling until the timeout elapses, then the first call
// runs as a HALF_OPEN trial; successThreshold consecutive trial successes
// close it, any trial failure reopens it.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	successThreshold int
	timeout          time.Duration

	mu          sync.Mutex
	state       BreakerState
	failures    int // consecutive
	successes   int // consecutive, HALF_OPEN only
	nextAttempt time.Time

	totalCalls   uint64
	successCalls uint64
	failureCalls uint64
	rejected     uint64
}

// NewCircuitBreaker creates a closed breaker for the named dependency.
func NewCircuitBreaker(name string, failureThreshold, successThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 2
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:             name,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
	}
}

// Execute runs fn through the breaker. While open it returns ErrCircuitOpen
// without invoking fn.
func (b *CircuitBreaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Now().Before(b.nextAttempt) {
			b.rejected++
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		// First call at/after nextAttempt becomes the half-open trial.
		b.state = StateHalfOpen
		b.successes = 0
	}
	b.mu.Unlock()

	err := fn()
	b.record(err)
	return err
}

func (b *CircuitBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalCalls++
	if err == nil {
		b.successCalls++
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.successThreshold {
				b.state = StateClosed
				b.successes = 0
			}
		}
		return
	}

	b.failureCalls++
	b.failures++
	switch b.state {
	case StateHalfOpen:
		b.trip()
	case StateClosed:
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	}
}

// trip opens the breaker. Caller holds the lock.
func (b *CircuitBreaker) trip() {
	b.state = StateOpen
	b.failures = 0
	b.successes = 0
	b.nextAttempt = time.Now().Add(b.timeout)
}

// State returns the breaker's current position.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns a snapshot of the breaker's counters.
func (b *CircuitBreaker) Stats() BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BreakerStats{
		Name:      b.name,
		State:     b.state,
		Total:     b.totalCalls,
		Successes: b.successCalls,
		Failures:  b.failureCalls,
		Rejected:  b.rejected,
	}
}

// BreakerRegistry hands out one breaker per named dependency, creating
// them on demand with shared thresholds.
type BreakerRegistry struct {
	mu               sync.Mutex
	breakers         map[string]*CircuitBreaker
	failureThreshold int
	successThreshold int
	timeout          time.Duration
}

// NewBreakerRegistry creates a registry whose breakers share the given
// thresholds.
func NewBreakerRegistry(failureThreshold, successThreshold int, timeout time.Duration) *BreakerRegistry {
	return &BreakerRegistry{
		breakers:         make(map[string]*CircuitBreaker),
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
	}
}

// Get returns the breaker for the named dependency, creating it if needed.
func (r *BreakerRegistry) Get(name string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	b := NewCircuitBreaker(name, r.failureThreshold, r.successThreshold, r.timeout)
	r.breakers[name] = b
	return b
}

// Snapshot returns stats for every registered breaker.
func (r *BreakerRegistry) Snapshot() []BreakerStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make([]BreakerStats, 0, len(r.breakers))
	for _, b := range r.breakers {
		stats = append(stats, b.Stats())
	}
	return stats
}
