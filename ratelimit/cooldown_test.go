package ratelimit_test

import (
	"testing"
	"time"

	"groovebot/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownWindow(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(time.Second)

	// First invocation records and admits.
	res := tracker.CheckAndRecord("play", "u1", 300*time.Millisecond)
	assert.False(t, res.OnCooldown)

	// Second invocation inside the window is rejected with the remaining time.
	res = tracker.CheckAndRecord("play", "u1", 300*time.Millisecond)
	require.True(t, res.OnCooldown)
	assert.True(t, res.Notify)
	assert.Greater(t, res.Remaining, time.Duration(0))
	assert.LessOrEqual(t, res.Remaining, 300*time.Millisecond)

	// After the window elapses the command is admitted again.
	time.Sleep(350 * time.Millisecond)
	res = tracker.CheckAndRecord("play", "u1", 300*time.Millisecond)
	assert.False(t, res.OnCooldown)
}

func TestCooldownRemainingShrinks(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(time.Second)

	tracker.CheckAndRecord("skip", "u1", 500*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	res := tracker.CheckAndRecord("skip", "u1", 500*time.Millisecond)
	require.True(t, res.OnCooldown)
	// remaining ≈ cooldown - elapsed
	assert.InDelta(t, float64(300*time.Millisecond), float64(res.Remaining), float64(100*time.Millisecond))
}

func TestCooldownKeysAreIndependent(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(time.Second)

	tracker.CheckAndRecord("play", "u1", time.Minute)
	assert.False(t, tracker.CheckAndRecord("play", "u2", time.Minute).OnCooldown)
	assert.False(t, tracker.CheckAndRecord("skip", "u1", time.Minute).OnCooldown)
	assert.True(t, tracker.CheckAndRecord("play", "u1", time.Minute).OnCooldown)
}

func TestCooldownNoticeGuard(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(200 * time.Millisecond)

	tracker.CheckAndRecord("play", "u1", time.Minute)

	// First rejected attempt notifies, immediate repeats do not.
	res := tracker.CheckAndRecord("play", "u1", time.Minute)
	require.True(t, res.OnCooldown)
	assert.True(t, res.Notify)

	res = tracker.CheckAndRecord("play", "u1", time.Minute)
	require.True(t, res.OnCooldown)
	assert.False(t, res.Notify)

	// A fresh notice window allows one more notice.
	time.Sleep(250 * time.Millisecond)
	res = tracker.CheckAndRecord("play", "u1", time.Minute)
	require.True(t, res.OnCooldown)
	assert.True(t, res.Notify)
}

func TestCooldownZeroDuration(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(time.Second)

	for i := 0; i < 5; i++ {
		assert.False(t, tracker.CheckAndRecord("ping", "u1", 0).OnCooldown)
	}
	assert.Equal(t, 0, tracker.Size())
}

func TestCooldownSweep(t *testing.T) {
	t.Parallel()
	tracker := ratelimit.NewCooldownTracker(time.Second)

	tracker.CheckAndRecord("play", "u1", 50*time.Millisecond)
	tracker.CheckAndRecord("play", "u2", time.Minute)
	require.Equal(t, 2, tracker.Size())

	time.Sleep(100 * time.Millisecond)
	removed := tracker.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, tracker.Size())
}
