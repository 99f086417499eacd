// Package detect implements the frame-differencing motion detection pipeline:
// grayscale normalization, inter-frame differencing, region extraction and the
// notification cooldown gate.
package detect

import (
	"image"
	"time"
)

// Detection pipeline defaults.
const (
	// DefaultThreshold is the per-pixel intensity difference above which a
	// pixel counts as changed. Lower values are more sensitive.
	DefaultThreshold = 25
	// DefaultMinArea is the minimum connected-component pixel count for a
	// region to be reported.
	DefaultMinArea = 500
	// DefaultCooldown is the minimum time between two notifications.
	DefaultCooldown = 60 * time.Second
)

// Region is a connected foreground component found in a motion mask.
type Region struct {
	// Bounds is the axis-aligned bounding box of the component.
	Bounds image.Rectangle
	// Area is the component's foreground pixel count, not the box area.
	Area int
}

// DetectionResult is the outcome of one frame pass.
type DetectionResult struct {
	Regions   []Region
	Count     int
	Timestamp time.Time
}

// Motion reports whether the result contains at least one region.
func (r DetectionResult) Motion() bool {
	return r.Count > 0
}
