// Package dispatch executes admitted commands. It is the single place
// execution errors surface: they become audit entries and a user-facing
// apology here, and never propagate further.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"groovebot/model"
	"groovebot/perf"
)

// AuditEntry is the record written for every dispatched command,
// success or failure.
type AuditEntry struct {
	Command   string
	UserID    string
	GuildID   string
	ChannelID string
	Duration  time.Duration
	Err       error
}

// Dispatcher wraps command execution with the request queue, retry
// handler, and performance monitor.
type Dispatcher struct {
	queue   *perf.RequestQueue
	retry   *perf.RetryHandler
	monitor *perf.Monitor

	// Audit receives the bookkeeping record for every dispatch. Nil skips
	// audit output but never the monitor.
	Audit func(entry AuditEntry)
	// PriorityOf ranks an invocation for the queue; nil means priority 0.
	PriorityOf func(ctx *model.Context) int
	// ShouldRetry classifies execution errors; nil uses perf.IsTransient.
	ShouldRetry func(err error) bool
}

// New creates a dispatcher over the given queue, retry handler, and monitor.
func New(queue *perf.RequestQueue, retry *perf.RetryHandler, monitor *perf.Monitor) *Dispatcher {
	return &Dispatcher{queue: queue, retry: retry, monitor: monitor}
}

// Dispatch runs the command and performs the post-execution bookkeeping.
// It blocks until the command completes, times out, or is rejected, and
// never returns an error: failures end here.
func (d *Dispatcher) Dispatch(ctx *model.Context, cmd *model.Command, args []string) {
	start := time.Now()

	priority := 0
	if d.PriorityOf != nil {
		priority = d.PriorityOf(ctx)
	}
	shouldRetry := d.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = perf.IsTransient
	}

	_, err := d.queue.Add(func() (any, error) {
		return nil, d.retry.Execute(context.Background(), func() (runErr error) {
			defer func() {
				if r := recover(); r != nil {
					runErr = fmt.Errorf("command %s panicked: %v", cmd.Name, r)
				}
			}()
			return cmd.Run(ctx, args)
		}, shouldRetry)
	}, priority)

	duration := time.Since(start)
	d.monitor.Record(perf.BucketCommands, cmd.Name, duration, err != nil)

	if err != nil {
		d.monitor.RecordError("dispatch", err.Error())
		log.Printf("Command %s failed for user %s in guild %s: %v", cmd.Name, ctx.UserID, ctx.GuildID, err)
		ctx.Reply(apologyFor(err))
	}

	if d.Audit != nil {
		d.Audit(AuditEntry{
			Command:   cmd.Name,
			UserID:    ctx.UserID,
			GuildID:   ctx.GuildID,
			ChannelID: ctx.ChannelID,
			Duration:  duration,
			Err:       err,
		})
	}
}

// apologyFor maps the error taxonomy to its user-facing message.
func apologyFor(err error) string {
	switch {
	case errors.Is(err, perf.ErrQueueTimeout):
		return "That took too long and was cancelled, please try again."
	case errors.Is(err, perf.ErrCircuitOpen):
		return "A service I depend on is unavailable right now, please try again later."
	case errors.Is(err, perf.ErrQueueCleared):
		return "That request was cancelled."
	default:
		return "Something went wrong while running that command."
	}
}
