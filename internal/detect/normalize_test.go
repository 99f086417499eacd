package detect

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNormalize_ColorFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			frame.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	gray, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if gray.Bounds().Dx() != 64 || gray.Bounds().Dy() != 48 {
		t.Errorf("output dimensions = %dx%d, want 64x48",
			gray.Bounds().Dx(), gray.Bounds().Dy())
	}

	// A uniform light frame stays light after blurring, away from the edges.
	if v := gray.GrayAt(32, 24).Y; v < 150 {
		t.Errorf("center intensity = %d, want a light value", v)
	}
}

func TestNormalize_ShapeStableOnGrayInput(t *testing.T) {
	frame := grayFrame(100, 80, 128)

	once, err := Normalize(frame)
	if err != nil {
		t.Fatalf("first Normalize returned error: %v", err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatalf("second Normalize returned error: %v", err)
	}

	if twice.Bounds() != once.Bounds() {
		t.Errorf("re-normalized bounds = %v, want %v", twice.Bounds(), once.Bounds())
	}
}

func TestNormalize_InvalidFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame image.Image
	}{
		{name: "nil frame", frame: nil},
		{name: "zero width", frame: image.NewRGBA(image.Rect(0, 0, 0, 10))},
		{name: "zero height", frame: image.NewGray(image.Rect(0, 0, 10, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.frame)
			if err == nil {
				t.Fatal("Normalize should fail")
			}
			if !errors.Is(err, ErrInvalidFrame) {
				t.Errorf("error = %v, want ErrInvalidFrame", err)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			frame.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 6), B: 40, A: 255})
		}
	}

	a, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	b, err := Normalize(frame)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("Normalize is not deterministic")
		}
	}
}
