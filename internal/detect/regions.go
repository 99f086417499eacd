package detect

import (
	"image"

	"github.com/harrydb/go/img/grayscale"
)

// Extract finds the maximal 8-connected foreground components of a binary
// motion mask and returns one Region per component with at least minArea
// foreground pixels. Components are discovered along a raster scan of the
// mask (top-to-bottom, left-to-right), so the returned order is deterministic
// for a given mask. An empty slice means no region passed the filter; that is
// not an error.
func Extract(mask *image.Gray, minArea int) []Region {
	if mask == nil {
		return nil
	}

	// The component scan consumes foreground pixels as it labels them, so it
	// runs on a copy and the caller's mask stays intact.
	scratch := image.NewGray(mask.Bounds())
	copy(scratch.Pix, mask.Pix)

	cocos := grayscale.CoCos(scratch, 255, grayscale.NEIGHBOR8)

	regions := make([]Region, 0, len(cocos))
	for _, coco := range cocos {
		if len(coco) < minArea {
			continue
		}
		regions = append(regions, Region{
			Bounds: boundingBox(coco),
			Area:   len(coco),
		})
	}
	return regions
}

// boundingBox returns the axis-aligned bounding box of a point set.
// The component scan never yields an empty set.
func boundingBox(points []image.Point) image.Rectangle {
	box := image.Rectangle{Min: points[0], Max: points[0].Add(image.Pt(1, 1))}
	for _, p := range points[1:] {
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.X+1 > box.Max.X {
			box.Max.X = p.X + 1
		}
		if p.Y+1 > box.Max.Y {
			box.Max.Y = p.Y + 1
		}
	}
	return box
}
