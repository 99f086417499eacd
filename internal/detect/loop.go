package detect

import (
	"image"
	"time"
)

// LoopConfig holds the tunables for a detection loop.
type LoopConfig struct {
	// Threshold is the per-pixel difference threshold. Defaults to
	// DefaultThreshold when non-positive.
	Threshold int
	// MinArea is the minimum region pixel count. Defaults to DefaultMinArea
	// when non-positive.
	MinArea int
	// Cooldown is the minimum time between notifications. Defaults to
	// DefaultCooldown when non-positive.
	Cooldown time.Duration
}

// Outcome is what one frame pass produces: the detection result, the motion
// mask for rendering, and the gate's notification decision.
type Outcome struct {
	Result DetectionResult
	// Mask is nil for the priming frame, which has nothing to diff against.
	Mask *image.Gray
	// Notify is true when the gate decided an external alert should fire for
	// this result. Dispatching the alert is the caller's job and must never
	// block or fail back into the loop.
	Notify bool
}

// Loop runs the detection pipeline over successive frames. It owns the
// rolling reference frame and the notification gate; all of that state is
// mutated only by Process, so a Loop must be driven by a single goroutine.
// Independent camera sources get independent Loops.
type Loop struct {
	threshold int
	minArea   int
	gate      *Gate
	reference *image.Gray
}

// NewLoop creates a detection loop with the given configuration.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MinArea <= 0 {
		cfg.MinArea = DefaultMinArea
	}
	return &Loop{
		threshold: cfg.Threshold,
		minArea:   cfg.MinArea,
		gate:      NewGate(cfg.Cooldown),
	}
}

// Process runs one frame through the pipeline: normalize, diff against the
// reference frame, extract regions, and consult the notification gate. The
// first frame only primes the reference and yields an empty result.
//
// The reference is replaced by the current normalized frame after every
// successful pass. This is a deliberate previous-vs-current model, not a
// running-average background; it stays responsive but is sensitive to
// gradual lighting drift.
//
// Errors abort only the current frame: the loop keeps its state and accepts
// the next frame. A dimension mismatch that persists across frames means the
// frame source is misconfigured, and escalating that is the caller's call.
func (l *Loop) Process(frame image.Image, now time.Time) (Outcome, error) {
	normalized, err := Normalize(frame)
	if err != nil {
		return Outcome{}, err
	}

	if l.reference == nil {
		l.reference = normalized
		return Outcome{Result: DetectionResult{Regions: []Region{}, Timestamp: now}}, nil
	}

	mask, err := Diff(l.reference, normalized, l.threshold)
	if err != nil {
		return Outcome{}, err
	}

	regions := Extract(mask, l.minArea)
	result := DetectionResult{
		Regions:   regions,
		Count:     len(regions),
		Timestamp: now,
	}

	l.reference = normalized

	return Outcome{
		Result: result,
		Mask:   mask,
		Notify: l.gate.ShouldNotify(result, now),
	}, nil
}

// Reset drops the reference frame so the next frame primes a new baseline.
// Gate state is kept: resetting the baseline must not bypass the cooldown.
func (l *Loop) Reset() {
	l.reference = nil
}

// Gate returns the loop's notification gate.
func (l *Loop) Gate() *Gate {
	return l.gate
}

// Threshold returns the per-pixel difference threshold in use.
func (l *Loop) Threshold() int {
	return l.threshold
}

// MinArea returns the minimum region pixel count in use.
func (l *Loop) MinArea() int {
	return l.minArea
}
