package dispatch_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"groovebot/dispatch"
	"groovebot/model"
	"groovebot/perf"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
}

func (r *fakeReplier) Reply(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, content)
	return nil
}

func (r *fakeReplier) ReplyEmbed(*discordgo.MessageEmbed) error   { return nil }
func (r *fakeReplier) ReplyTransient(string, time.Duration) error { return nil }
func (r *fakeReplier) React(string) error                         { return nil }

func (r *fakeReplier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.replies...)
}

func testContext(replier *fakeReplier) *model.Context {
	return &model.Context{
		UserID:    "u1",
		GuildID:   "g1",
		ChannelID: "c1",
		Replier:   replier,
	}
}

func testDispatcher(timeout time.Duration) *dispatch.Dispatcher {
	queue := perf.NewRequestQueue(2, timeout)
	retry := perf.NewRetryHandler(model.RetrySettings{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	})
	monitor := perf.NewMonitor(model.MonitorSettings{SampleWindow: 100, MemoryWarn: 99, MemoryCritical: 100, ErrorWarn: 100, ErrorCritical: 200})
	return dispatch.New(queue, retry, monitor)
}

func TestDispatchSuccessBookkeeping(t *testing.T) {
	t.Parallel()
	d := testDispatcher(time.Second)

	var entries []dispatch.AuditEntry
	d.Audit = func(entry dispatch.AuditEntry) { entries = append(entries, entry) }

	ran := false
	cmd := &model.Command{
		Name: "ping",
		Run: func(ctx *model.Context, args []string) error {
			ran = true
			return nil
		},
	}

	replier := &fakeReplier{}
	d.Dispatch(testContext(replier), cmd, nil)

	assert.True(t, ran)
	assert.Empty(t, replier.all())
	require.Len(t, entries, 1)
	assert.Equal(t, "ping", entries[0].Command)
	assert.NoError(t, entries[0].Err)
}

func TestDispatchRetriesTransientErrors(t *testing.T) {
	t.Parallel()
	d := testDispatcher(time.Second)

	calls := 0
	cmd := &model.Command{
		Name: "play",
		Run: func(ctx *model.Context, args []string) error {
			calls++
			if calls < 3 {
				return errors.New("connection reset by peer")
			}
			return nil
		},
	}

	replier := &fakeReplier{}
	d.Dispatch(testContext(replier), cmd, nil)

	assert.Equal(t, 3, calls)
	assert.Empty(t, replier.all())
}

func TestDispatchDoesNotRetryPermanentErrors(t *testing.T) {
	t.Parallel()
	d := testDispatcher(time.Second)

	var entries []dispatch.AuditEntry
	d.Audit = func(entry dispatch.AuditEntry) { entries = append(entries, entry) }

	calls := 0
	cmd := &model.Command{
		Name: "play",
		Run: func(ctx *model.Context, args []string) error {
			calls++
			return errors.New("unknown track id")
		},
	}

	replier := &fakeReplier{}
	d.Dispatch(testContext(replier), cmd, nil)

	assert.Equal(t, 1, calls)
	replies := replier.all()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Something went wrong")
	require.Len(t, entries, 1)
	assert.Error(t, entries[0].Err)
}

func TestDispatchConvertsPanics(t *testing.T) {
	t.Parallel()
	d := testDispatcher(time.Second)

	cmd := &model.Command{
		Name: "boom",
		Run: func(ctx *model.Context, args []string) error {
			panic("nil deref")
		},
	}

	replier := &fakeReplier{}
	// Must not panic the caller.
	d.Dispatch(testContext(replier), cmd, nil)
	require.Len(t, replier.all(), 1)
}

func TestDispatchTimeoutApology(t *testing.T) {
	t.Parallel()
	d := testDispatcher(50 * time.Millisecond)
	d.ShouldRetry = func(error) bool { return false }

	cmd := &model.Command{
		Name: "slow",
		Run: func(ctx *model.Context, args []string) error {
			time.Sleep(300 * time.Millisecond)
			return nil
		},
	}

	replier := &fakeReplier{}
	d.Dispatch(testContext(replier), cmd, nil)

	replies := replier.all()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "took too long")
}
