package detect

import (
	"testing"
	"time"
)

// resultWithCount builds a detection result carrying count regions.
func resultWithCount(count int, ts time.Time) DetectionResult {
	regions := make([]Region, count)
	return DetectionResult{Regions: regions, Count: count, Timestamp: ts}
}

func TestGate_CooldownCycle(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gate := NewGate(60 * time.Second)

	// Armed gate fires on the first non-empty detection.
	if !gate.ShouldNotify(resultWithCount(1, base), base) {
		t.Fatal("armed gate should notify on first detection")
	}
	if sentAt, ok := gate.LastSentAt(); !ok || !sentAt.Equal(base) {
		t.Errorf("lastSentAt = %v (%v), want %v", sentAt, ok, base)
	}

	// Inside the cooldown window nothing fires, regardless of content.
	at30 := base.Add(30 * time.Second)
	if gate.ShouldNotify(resultWithCount(1, at30), at30) {
		t.Error("gate should suppress at t=30s with a 60s cooldown")
	}
	if sentAt, _ := gate.LastSentAt(); !sentAt.Equal(base) {
		t.Errorf("suppressed call moved lastSentAt to %v", sentAt)
	}

	// Once the cooldown has elapsed the gate re-arms lazily and fires again.
	at61 := base.Add(61 * time.Second)
	if !gate.ShouldNotify(resultWithCount(1, at61), at61) {
		t.Error("gate should notify again at t=61s")
	}
	if sentAt, _ := gate.LastSentAt(); !sentAt.Equal(at61) {
		t.Errorf("lastSentAt = %v, want %v", sentAt, at61)
	}
}

func TestGate_EmptyDetectionNeverFires(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gate := NewGate(60 * time.Second)

	// While armed.
	if gate.ShouldNotify(resultWithCount(0, base), base) {
		t.Error("empty detection fired while armed")
	}
	if _, ok := gate.LastSentAt(); ok {
		t.Error("empty detection set lastSentAt")
	}

	// While in cooldown.
	if !gate.ShouldNotify(resultWithCount(2, base), base) {
		t.Fatal("non-empty detection should fire")
	}
	later := base.Add(10 * time.Second)
	if gate.ShouldNotify(resultWithCount(0, later), later) {
		t.Error("empty detection fired during cooldown")
	}
	if sentAt, _ := gate.LastSentAt(); !sentAt.Equal(base) {
		t.Errorf("empty detection moved lastSentAt to %v", sentAt)
	}

	// After the cooldown has elapsed an empty detection still must not fire
	// or re-arm anything.
	at120 := base.Add(120 * time.Second)
	if gate.ShouldNotify(resultWithCount(0, at120), at120) {
		t.Error("empty detection fired after cooldown elapsed")
	}
	if sentAt, _ := gate.LastSentAt(); !sentAt.Equal(base) {
		t.Errorf("lastSentAt = %v, want unchanged %v", sentAt, base)
	}
}

func TestGate_ExactCooldownBoundary(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gate := NewGate(60 * time.Second)

	gate.ShouldNotify(resultWithCount(1, base), base)

	// Elapsed == cooldown re-arms: the contract is >=, not >.
	at60 := base.Add(60 * time.Second)
	if !gate.ShouldNotify(resultWithCount(1, at60), at60) {
		t.Error("gate should fire when elapsed equals the cooldown")
	}
}

func TestNewGate_DefaultsCooldown(t *testing.T) {
	tests := []struct {
		name     string
		cooldown time.Duration
		want     time.Duration
	}{
		{name: "explicit cooldown", cooldown: 5 * time.Second, want: 5 * time.Second},
		{name: "zero falls back", cooldown: 0, want: DefaultCooldown},
		{name: "negative falls back", cooldown: -time.Second, want: DefaultCooldown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewGate(tt.cooldown).Cooldown(); got != tt.want {
				t.Errorf("Cooldown() = %v, want %v", got, tt.want)
			}
		})
	}
}
