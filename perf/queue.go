package perf

import (
	"fmt"
	"sync"
	"time"
)

// Task is a unit of work scheduled through the RequestQueue.
type Task func() (any, error)

type outcome struct {
	value any
	err   error
}

type queuedRequest struct {
	run      Task
	priority int
	enqueued time.Time
	done     chan outcome
}

// QueueStats is a point-in-time snapshot of queue counters.
type QueueStats struct {
	Running     int
	Waiting     int
	Concurrency int
	Completed   uint64
	Failures    uint64
	Timeouts    uint64
}

// RequestQueue schedules tasks by descending priority (FIFO within equal
// priority) under a fixed concurrency limit. Each running task is guarded
// by a timeout; a timed-out task frees its slot and its caller gets
// ErrQueueTimeout while the task goroutine is left to finish on its own.
type RequestQueue struct {
	mu          sync.Mutex
	waiting     []*queuedRequest
	running     int
	concurrency int
	timeout     time.Duration

	completed uint64
	failures  uint64
	timeouts  uint64
}

// NewRequestQueue creates a queue with the given concurrency limit and
// per-request timeout.
func NewRequestQueue(concurrency int, timeout time.Duration) *RequestQueue {
	if concurrency <= 0 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RequestQueue{
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Add enqueues fn at the given priority and blocks until it completes,
// times out, or the queue is cleared.
func (q *RequestQueue) Add(fn Task, priority int) (any, error) {
	req := &queuedRequest{
		run:      fn,
		priority: priority,
		enqueued: time.Now(),
		done:     make(chan outcome, 1),
	}

	q.mu.Lock()
	q.insert(req)
	q.pump()
	q.mu.Unlock()

	out := <-req.done
	return out.value, out.err
}

// insert keeps waiting sorted by descending priority, new entries placed
// before the first strictly lower-priority one. Caller holds the lock.
func (q *RequestQueue) insert(req *queuedRequest) {
	at := len(q.waiting)
	for i, waiting := range q.waiting {
		if waiting.priority < req.priority {
			at = i
			break
		}
	}
	q.waiting = append(q.waiting, nil)
	copy(q.waiting[at+1:], q.waiting[at:])
	q.waiting[at] = req
}

// pump starts waiting requests while concurrency has headroom. Caller
// holds the lock.
func (q *RequestQueue) pump() {
	for q.running < q.concurrency && len(q.waiting) > 0 {
		req := q.waiting[0]
		q.waiting = q.waiting[1:]
		q.running++
		go q.execute(req)
	}
}

func (q *RequestQueue) execute(req *queuedRequest) {
	resultCh := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- outcome{err: fmt.Errorf("queued task panicked: %v", r)}
			}
		}()
		value, err := req.run()
		resultCh <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(q.timeout)
	var out outcome
	select {
	case out = <-resultCh:
		timer.Stop()
	case <-timer.C:
		out = outcome{err: ErrQueueTimeout}
	}
	req.done <- out

	q.mu.Lock()
	q.running--
	switch {
	case out.err == nil:
		q.completed++
	case out.err == ErrQueueTimeout:
		q.timeouts++
	default:
		q.failures++
	}
	q.pump()
	q.mu.Unlock()
}

// Clear rejects every pending request without running it. Requests already
// running are unaffected.
func (q *RequestQueue) Clear() int {
	q.mu.Lock()
	cleared := q.waiting
	q.waiting = nil
	q.mu.Unlock()

	for _, req := range cleared {
		req.done <- outcome{err: ErrQueueCleared}
	}
	return len(cleared)
}

// Running returns the number of requests currently executing.
func (q *RequestQueue) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Waiting returns the number of requests queued but not yet started.
func (q *RequestQueue) Waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

// Stats returns a snapshot of queue counters.
func (q *RequestQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Running:     q.running,
		Waiting:     len(q.waiting),
		Concurrency: q.concurrency,
		Completed:   q.completed,
		Failures:    q.failures,
		Timeouts:    q.timeouts,
	}
}
