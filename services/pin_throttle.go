package services

import (
	"sync"
	"time"
)

const throttleCooldownCapSeconds = 30

// PinThrottle slows brute forcing of the 4-digit table PIN: every
// failed validation doubles a per-table cooldown, capped at 30s, and a
// successful validation clears it. State is in memory only; a restart
// resets it, which is acceptable for a nuisance-level control.
type PinThrottle struct {
	mu      sync.Mutex
	entries map[uint]*throttleEntry
	now     func() time.Time
}

type throttleEntry struct {
	failCount     int
	cooldownUntil time.Time
}

func NewPinThrottle() *PinThrottle {
	return &PinThrottle{
		entries: make(map[uint]*throttleEntry),
		now:     time.Now,
	}
}

// WaitSeconds reports how long the table is locked out (0 = not locked).
func (t *PinThrottle) WaitSeconds(tableID uint) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[tableID]
	if !ok {
		return 0
	}
	now := t.now()
	if now.Before(e.cooldownUntil) {
		return int(e.cooldownUntil.Sub(now).Seconds()) + 1
	}
	return 0
}

// RecordFailure bumps the fail count and sets the next cooldown to
// min(30, 2^failCount) seconds.
func (t *PinThrottle) RecordFailure(tableID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[tableID]
	if !ok {
		e = &throttleEntry{}
		t.entries[tableID] = e
	}
	e.failCount++
	e.cooldownUntil = t.now().Add(time.Duration(CooldownSecondsForFailCount(e.failCount)) * time.Second)
}

// RecordSuccess resets the table's throttle state.
func (t *PinThrottle) RecordSuccess(tableID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, tableID)
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	s := 1
	for i := 0; i < failCount; i++ {
		s *= 2
		if s >= throttleCooldownCapSeconds {
			return throttleCooldownCapSeconds
		}
	}
	return s
}
