package detect

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// Dilation parameters. Two passes of a 3x3 maximum filter merge foreground
// pixels that thresholding fragmented into speckles.
const (
	DilateKernelSize = 3
	DilateIterations = 2
)

// Diff computes the binary motion mask between a reference frame and the
// current frame. A pixel is foreground (255) when the absolute intensity
// difference exceeds threshold; the mask is then dilated so that adjacent
// fragments of a single moving object form one contiguous blob.
//
// Both frames must have identical dimensions. Diff keeps no state between
// calls; the output is purely a function of its inputs.
func Diff(reference, current *image.Gray, threshold int) (*image.Gray, error) {
	if reference == nil || current == nil {
		return nil, fmt.Errorf("diff: %w: nil frame", ErrInvalidFrame)
	}

	rb, cb := reference.Bounds(), current.Bounds()
	if rb.Dx() != cb.Dx() || rb.Dy() != cb.Dy() {
		return nil, fmt.Errorf("diff: %w: reference %dx%d, current %dx%d",
			ErrDimensionMismatch, rb.Dx(), rb.Dy(), cb.Dx(), cb.Dy())
	}

	mask := image.NewGray(image.Rect(0, 0, cb.Dx(), cb.Dy()))
	for y := 0; y < cb.Dy(); y++ {
		ro := reference.PixOffset(rb.Min.X, rb.Min.Y+y)
		co := current.PixOffset(cb.Min.X, cb.Min.Y+y)
		mo := mask.PixOffset(0, y)
		for x := 0; x < cb.Dx(); x++ {
			d := int(reference.Pix[ro+x]) - int(current.Pix[co+x])
			if d < 0 {
				d = -d
			}
			if d > threshold {
				mask.Pix[mo+x] = 255
			}
		}
	}

	return dilate(mask), nil
}

// dilate grows foreground regions with repeated maximum filtering.
func dilate(mask *image.Gray) *image.Gray {
	filters := make([]gift.Filter, DilateIterations)
	for i := range filters {
		filters[i] = gift.Maximum(DilateKernelSize, false)
	}
	g := gift.New(filters...)

	dst := image.NewGray(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}
