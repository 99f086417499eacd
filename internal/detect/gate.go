package detect

import "time"

// Gate rate-limits external notifications. It starts armed; the first
// non-empty detection fires and puts the gate into cooldown, and it re-arms
// lazily once the cooldown has elapsed at the time of the next call. There is
// no background timer.
//
// Gate does no I/O and never blocks. It is owned by a single detection loop
// and is not safe for concurrent use.
type Gate struct {
	cooldown   time.Duration
	lastSentAt time.Time
	fired      bool
}

// NewGate creates a Gate with the given cooldown.
// Non-positive cooldowns fall back to DefaultCooldown.
func NewGate(cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{cooldown: cooldown}
}

// ShouldNotify decides whether an external alert should fire for result at
// time now. Empty detections never fire and never touch gate state. When the
// gate fires it records now as the last-sent time, so lastSentAt only ever
// moves forward.
func (g *Gate) ShouldNotify(result DetectionResult, now time.Time) bool {
	if result.Count == 0 {
		return false
	}
	if g.fired && now.Sub(g.lastSentAt) < g.cooldown {
		return false
	}

	g.lastSentAt = now
	g.fired = true
	return true
}

// LastSentAt returns the time of the most recent fired notification.
// The second return value is false if the gate has never fired.
func (g *Gate) LastSentAt() (time.Time, bool) {
	return g.lastSentAt, g.fired
}

// Cooldown returns the configured cooldown duration.
func (g *Gate) Cooldown() time.Duration {
	return g.cooldown
}
