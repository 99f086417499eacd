// Package render draws detection overlays onto frames and persists snapshots.
// It is purely a sink for pipeline output; nothing here feeds back into
// detection.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ayusman/vigil/internal/detect"
)

const (
	// BoxThickness is the bounding box outline width in pixels.
	BoxThickness = 2
	// stripHeight is the height of the motion status strip drawn along the
	// top edge when a frame contains motion.
	stripHeight = 4
)

var stripColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}

// Annotate copies the frame and draws one outlined bounding box per detected
// region, each with its own palette color, plus a status strip along the top
// edge when the result contains motion. The input frame is never modified.
func Annotate(frame image.Image, result detect.DetectionResult) *image.RGBA {
	bounds := frame.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, frame, bounds.Min, draw.Src)

	if result.Count == 0 {
		return dst
	}

	palette := colorful.FastWarmPalette(result.Count)
	for i, region := range result.Regions {
		r, g, b := palette[i%len(palette)].RGB255()
		drawBox(dst, region.Bounds, color.RGBA{R: r, G: g, B: b, A: 255})
	}

	strip := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+stripHeight)
	draw.Draw(dst, strip.Intersect(bounds), &image.Uniform{C: stripColor}, image.Point{}, draw.Src)

	return dst
}

// drawBox strokes the rectangle outline, clamped to the image bounds.
func drawBox(dst *image.RGBA, box image.Rectangle, c color.RGBA) {
	outer := box.Intersect(dst.Bounds())
	if outer.Empty() {
		return
	}

	src := &image.Uniform{C: c}
	edges := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+BoxThickness), // top
		image.Rect(outer.Min.X, outer.Max.Y-BoxThickness, outer.Max.X, outer.Max.Y), // bottom
		image.Rect(outer.Min.X, outer.Min.Y, outer.Min.X+BoxThickness, outer.Max.Y), // left
		image.Rect(outer.Max.X-BoxThickness, outer.Min.Y, outer.Max.X, outer.Max.Y), // right
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(outer), src, image.Point{}, draw.Src)
	}
}
