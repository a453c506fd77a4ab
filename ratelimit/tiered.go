package ratelimit

import (
	"sync"
	"time"

	"groovebot/model"
)

// TierResolver maps a subject to its rate-limit tier (owner > premium > default).
type TierResolver func(subjectID string) model.Tier

// LimitResult is the outcome of a tiered rate-limit check.
type LimitResult struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
	Tier      model.Tier
}

type windowRecord struct {
	count       int
	windowStart time.Time
	tier        model.Tier
}

// TieredLimiter is a fixed-window limiter keyed by (subject, action class)
// with per-tier allowances. The window resets on first access after it
// elapses, so expired records behave correctly even before a sweep.
type TieredLimiter struct {
	mu      sync.Mutex
	records map[string]*windowRecord
	limits  map[model.Tier]model.TierLimit
	resolve TierResolver
}

// NewTieredLimiter creates a limiter with the given per-tier allowances.
func NewTieredLimiter(limits map[model.Tier]model.TierLimit, resolve TierResolver) *TieredLimiter {
	if resolve == nil {
		resolve = func(string) model.Tier { return model.TierDefault }
	}
	return &TieredLimiter{
		records: make(map[string]*windowRecord),
		limits:  limits,
		resolve: resolve,
	}
}

func (l *TieredLimiter) limitFor(tier model.Tier) model.TierLimit {
	if limit, ok := l.limits[tier]; ok {
		return limit
	}
	return model.TierLimit{Requests: 20, Window: time.Minute}
}

// Check increments the subject's counter for the action class and reports
// whether the tier allowance is exceeded in the current window.
func (l *TieredLimiter) Check(subjectID, action string) LimitResult {
	tier := l.resolve(subjectID)
	limit := l.limitFor(tier)
	key := subjectID + "|" + action
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) > limit.Window {
		rec = &windowRecord{windowStart: now, tier: tier}
		l.records[key] = rec
	}
	rec.count++

	remaining := limit.Requests - rec.count
	if remaining < 0 {
		remaining = 0
	}
	return LimitResult{
		Limited:   rec.count > limit.Requests,
		Remaining: remaining,
		ResetAt:   rec.windowStart.Add(limit.Window),
		Tier:      tier,
	}
}

// Sweep removes records more than twice as stale as their tier's window.
// Advisory housekeeping only; correctness does not depend on it.
func (l *TieredLimiter) Sweep() int {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, rec := range l.records {
		window := l.limitFor(rec.tier).Window
		if now.Sub(rec.windowStart) > 2*window {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of live window records.
func (l *TieredLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
