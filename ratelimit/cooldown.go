package ratelimit

import (
	"sync"
	"time"
)

// CooldownResult is the outcome of a cooldown admission check.
type CooldownResult struct {
	OnCooldown bool
	Remaining  time.Duration
	// Notify is true for the first rejected attempt inside the notice
	// window; repeated attempts while already on cooldown stay silent so a
	// mashed command does not spam the channel.
	Notify bool
}

type cooldownRecord struct {
	recordedAt time.Time
	expiresAt  time.Time
}

// CooldownTracker enforces per-(command, subject) sliding-window cooldowns.
// Records are expired lazily on lookup; Sweep removes the leftovers.
type CooldownTracker struct {
	mu           sync.Mutex
	records      map[string]cooldownRecord
	notices      map[string]time.Time
	noticeWindow time.Duration
}

// NewCooldownTracker creates a tracker whose cooldown notices are rate
// limited to one per key per noticeWindow.
func NewCooldownTracker(noticeWindow time.Duration) *CooldownTracker {
	if noticeWindow <= 0 {
		noticeWindow = 5 * time.Second
	}
	return &CooldownTracker{
		records:      make(map[string]cooldownRecord),
		notices:      make(map[string]time.Time),
		noticeWindow: noticeWindow,
	}
}

// CheckAndRecord performs the atomic check-then-record for one invocation.
// A zero or negative cooldown always admits.
func (t *CooldownTracker) CheckAndRecord(command, subjectID string, cooldown time.Duration) CooldownResult {
	if cooldown <= 0 {
		return CooldownResult{}
	}

	key := command + "|" + subjectID
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[key]; ok {
		if now.Before(rec.expiresAt) {
			res := CooldownResult{
				OnCooldown: true,
				Remaining:  rec.expiresAt.Sub(now),
			}
			if last, seen := t.notices[key]; !seen || now.Sub(last) >= t.noticeWindow {
				t.notices[key] = now
				res.Notify = true
			}
			return res
		}
		// Stale record the sweep has not reached yet; fall through and refresh.
	}

	t.records[key] = cooldownRecord{recordedAt: now, expiresAt: now.Add(cooldown)}
	delete(t.notices, key)
	return CooldownResult{}
}

// Reset clears the cooldown for one (command, subject) pair.
func (t *CooldownTracker) Reset(command, subjectID string) {
	key := command + "|" + subjectID
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, key)
	delete(t.notices, key)
}

// Sweep drops expired records and stale notice stamps, returning how many
// records were removed.
func (t *CooldownTracker) Sweep() int {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, rec := range t.records {
		if now.After(rec.expiresAt) {
			delete(t.records, key)
			removed++
		}
	}
	for key, stamp := range t.notices {
		if now.Sub(stamp) >= t.noticeWindow {
			delete(t.notices, key)
		}
	}
	return removed
}

// Size returns the number of live cooldown records.
func (t *CooldownTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
