package ratelimit_test

import (
	"testing"
	"time"

	"groovebot/model"
	"groovebot/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() map[model.Tier]model.TierLimit {
	return map[model.Tier]model.TierLimit{
		model.TierDefault: {Requests: 3, Window: time.Minute},
		model.TierPremium: {Requests: 10, Window: time.Minute},
		model.TierOwner:   {Requests: 1000, Window: time.Minute},
	}
}

func TestDefaultTierLimited(t *testing.T) {
	t.Parallel()
	limiter := ratelimit.NewTieredLimiter(testLimits(), nil)

	for i := 0; i < 3; i++ {
		res := limiter.Check("u1", "command")
		require.False(t, res.Limited, "request %d should be admitted", i+1)
		assert.Equal(t, model.TierDefault, res.Tier)
	}

	res := limiter.Check("u1", "command")
	assert.True(t, res.Limited)
	assert.Equal(t, 0, res.Remaining)
	assert.WithinDuration(t, time.Now().Add(time.Minute), res.ResetAt, 2*time.Second)
}

func TestPremiumTierAllowanceExceedsDefault(t *testing.T) {
	t.Parallel()
	limiter := ratelimit.NewTieredLimiter(testLimits(), func(id string) model.Tier {
		if id == "premium" {
			return model.TierPremium
		}
		return model.TierDefault
	})

	// The identical sequence that limits a default subject does not limit a
	// premium one.
	for i := 0; i < 4; i++ {
		limiter.Check("plain", "command")
	}
	for i := 0; i < 4; i++ {
		res := limiter.Check("premium", "command")
		assert.False(t, res.Limited)
		assert.Equal(t, model.TierPremium, res.Tier)
	}
}

func TestWindowReset(t *testing.T) {
	t.Parallel()
	limits := map[model.Tier]model.TierLimit{
		model.TierDefault: {Requests: 1, Window: 100 * time.Millisecond},
	}
	limiter := ratelimit.NewTieredLimiter(limits, nil)

	require.False(t, limiter.Check("u1", "command").Limited)
	require.True(t, limiter.Check("u1", "command").Limited)

	time.Sleep(150 * time.Millisecond)
	assert.False(t, limiter.Check("u1", "command").Limited)
}

func TestActionClassesIndependent(t *testing.T) {
	t.Parallel()
	limiter := ratelimit.NewTieredLimiter(testLimits(), nil)

	for i := 0; i < 4; i++ {
		limiter.Check("u1", "command")
	}
	assert.True(t, limiter.Check("u1", "command").Limited)
	assert.False(t, limiter.Check("u1", "button").Limited)
}

func TestLimiterSweep(t *testing.T) {
	t.Parallel()
	limits := map[model.Tier]model.TierLimit{
		model.TierDefault: {Requests: 5, Window: 50 * time.Millisecond},
	}
	limiter := ratelimit.NewTieredLimiter(limits, nil)

	limiter.Check("u1", "command")
	require.Equal(t, 1, limiter.Size())

	// Not yet 2x stale.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, limiter.Sweep())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 0, limiter.Size())
}
