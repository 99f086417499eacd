package detect

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
	"github.com/harrydb/go/img/grayscale"
)

// BlurSigma is the Gaussian blur sigma applied after grayscale conversion to
// suppress sensor and compression noise.
const BlurSigma = 3.5

// Normalize converts a color frame to a smoothed single-channel intensity
// frame: luminance-weighted grayscale followed by a Gaussian blur. It is a
// pure function of its input. Frames that are already single-channel are
// blurred as-is, so the output shape always matches the input shape.
func Normalize(frame image.Image) (*image.Gray, error) {
	if frame == nil {
		return nil, fmt.Errorf("normalize: %w: nil frame", ErrInvalidFrame)
	}
	bounds := frame.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("normalize: %w: %dx%d", ErrInvalidFrame, bounds.Dx(), bounds.Dy())
	}

	gray, ok := frame.(*image.Gray)
	if !ok {
		gray = grayscale.Convert(frame, grayscale.ToGrayLuminance)
	}

	g := gift.New(gift.GaussianBlur(BlurSigma))
	dst := image.NewGray(g.Bounds(gray.Bounds()))
	g.Draw(dst, gray)

	return dst, nil
}
