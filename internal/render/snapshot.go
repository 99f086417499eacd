package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// SaveSnapshot writes the frame to dir as a timestamped JPEG and returns the
// full path. The directory is created if needed.
func SaveSnapshot(frame image.Image, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := fmt.Sprintf("snapshot_%s.jpg", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := imaging.Save(frame, path); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return path, nil
}
