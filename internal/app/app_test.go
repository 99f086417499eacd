package app

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/vigil/internal/capture"
	"github.com/ayusman/vigil/internal/detect"
	"github.com/ayusman/vigil/internal/store"
)

// countingNotifier counts deliveries for pipeline tests.
type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) Notify(result detect.DetectionResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return nil
}

func (n *countingNotifier) delivered() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// flatFrame builds a uniform grayscale frame.
func flatFrame(w, h int, value uint8) image.Image {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = value
	}
	return g
}

// alternatingCamera yields blank and lit frames in turn, so every diffed pair
// contains full-frame motion.
func alternatingCamera() *capture.MockCamera {
	return capture.NewMockCamera([]image.Image{
		flatFrame(64, 48, 0),
		flatFrame(64, 48, 255),
	}, true)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "vigil-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestApp_DetectsAndNotifies(t *testing.T) {
	notifier := &countingNotifier{}
	a := New(Config{
		Camera:    alternatingCamera(),
		Notifier:  notifier,
		Detection: detect.LoopConfig{Threshold: 25, MinArea: 100, Cooldown: time.Hour},
		FPS:       100,
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer a.Stop()

	waitFor(t, 2*time.Second, func() bool {
		result, ok := a.LastResult()
		return ok && result.Count > 0
	}, "pipeline never reported motion")

	if _, ok := a.LatestFrame(); !ok {
		t.Error("no annotated frame published")
	}

	waitFor(t, 2*time.Second, func() bool {
		return notifier.delivered() >= 1
	}, "no alert delivered")

	// An hour-long cooldown means exactly one alert despite constant motion.
	time.Sleep(100 * time.Millisecond)
	if got := notifier.delivered(); got != 1 {
		t.Errorf("delivered %d alerts inside one cooldown, want 1", got)
	}
}

func TestApp_RecordsEvents(t *testing.T) {
	s := newTestStore(t)
	a := New(Config{
		Camera:    alternatingCamera(),
		Store:     s,
		Notifier:  &countingNotifier{},
		Detection: detect.LoopConfig{Threshold: 25, MinArea: 100, Cooldown: time.Hour},
		FPS:       100,
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer a.Stop()

	waitFor(t, 2*time.Second, func() bool {
		events, err := s.Events().List(0)
		return err == nil && len(events) > 0
	}, "no motion events persisted")

	events, err := s.Events().List(1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if events[0].Count == 0 {
		t.Error("persisted event has no regions")
	}
}

func TestApp_DisabledSkipsProcessing(t *testing.T) {
	a := New(Config{
		Camera:    alternatingCamera(),
		Notifier:  &countingNotifier{},
		Detection: detect.LoopConfig{MinArea: 100},
		FPS:       100,
	})
	a.SetEnabled(false)

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer a.Stop()

	time.Sleep(100 * time.Millisecond)
	if _, ok := a.LastResult(); ok {
		t.Error("disabled app processed frames")
	}

	// Re-enabling picks processing back up.
	a.SetEnabled(true)
	waitFor(t, 2*time.Second, func() bool {
		_, ok := a.LastResult()
		return ok
	}, "app did not resume after enable")
}

func TestApp_SaveSnapshot(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "vigil-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	a := New(Config{
		Camera:      alternatingCamera(),
		Notifier:    &countingNotifier{},
		Detection:   detect.LoopConfig{MinArea: 100},
		FPS:         100,
		SnapshotDir: tmpDir,
	})

	// Before any frame there is nothing to save.
	if _, err := a.SaveSnapshot(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("error = %v, want ErrNoFrame", err)
	}

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer a.Stop()

	waitFor(t, 2*time.Second, func() bool {
		_, ok := a.LatestFrame()
		return ok
	}, "no frame published")

	path, err := a.SaveSnapshot()
	if err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}

func TestApp_StartStopIdempotent(t *testing.T) {
	a := New(Config{
		Camera:    alternatingCamera(),
		Notifier:  &countingNotifier{},
		Detection: detect.LoopConfig{MinArea: 100},
		FPS:       100,
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	// Second Start is a no-op, not an error.
	if err := a.Start(); err != nil {
		t.Fatalf("second Start returned error: %v", err)
	}

	a.Stop()
	if a.Camera().IsOpen() {
		t.Error("camera still open after Stop")
	}
}

func TestApp_SettingsAccessors(t *testing.T) {
	a := New(Config{
		Camera: alternatingCamera(),
		Detection: detect.LoopConfig{
			Threshold: 30,
			MinArea:   750,
			Cooldown:  90 * time.Second,
		},
	})

	if a.Threshold() != 30 {
		t.Errorf("Threshold() = %d, want 30", a.Threshold())
	}
	if a.MinArea() != 750 {
		t.Errorf("MinArea() = %d, want 750", a.MinArea())
	}
	if a.Cooldown() != 90*time.Second {
		t.Errorf("Cooldown() = %v, want 90s", a.Cooldown())
	}
}
