// Package app wires the Vigil motion watcher together: camera, detection
// loop, overlay rendering, event persistence and alert dispatch.
package app

import (
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/ayusman/vigil/internal/capture"
	"github.com/ayusman/vigil/internal/detect"
	"github.com/ayusman/vigil/internal/notify"
	"github.com/ayusman/vigil/internal/render"
	"github.com/ayusman/vigil/internal/store"
)

// Pipeline timing constants.
const (
	// DefaultFPS is the frame rate of the detection pipeline.
	DefaultFPS = 10
	// mismatchResetLimit is how many consecutive dimension mismatches the
	// pipeline tolerates before it re-primes the reference frame. A camera
	// that renegotiated its resolution mid-session gets adopted instead of
	// failing every frame forever.
	mismatchResetLimit = 5
)

// ErrNoFrame is returned when no frame has been processed yet.
var ErrNoFrame = errors.New("no frame available yet")

// Config holds configuration options for the application.
type Config struct {
	Camera      capture.Camera
	Store       *store.Store
	Notifier    notify.Notifier
	Detection   detect.LoopConfig
	FPS         int
	SnapshotDir string
}

// App is the main application that orchestrates motion detection, alerting
// and event persistence. All detection state lives in a single pipeline
// goroutine; App's shared fields only carry the published outputs.
type App struct {
	config     Config
	camera     capture.Camera
	loop       *detect.Loop
	dispatcher *notify.Dispatcher

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	latest     *image.RGBA
	lastResult detect.DetectionResult
	hasResult  bool
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}

	notifier := config.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
		log.Println("No notifier configured, alerts will only be logged")
	}

	return &App{
		config:     config,
		camera:     config.Camera,
		loop:       detect.NewLoop(config.Detection),
		dispatcher: notify.NewDispatcher(notifier, notify.DefaultQueueSize),
		enabled:    true,
	}
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.FPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline, drains pending alerts and releases the
// camera.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.dispatcher.Stop()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Detection pipeline stopped")
}

// SetEnabled enables or disables motion detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether motion detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// LatestFrame returns the most recent annotated frame, if any.
func (a *App) LatestFrame() (image.Image, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return nil, false
	}
	return a.latest, true
}

// LastResult returns the most recent detection result, if any.
func (a *App) LastResult() (detect.DetectionResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastResult, a.hasResult
}

// Threshold returns the per-pixel difference threshold in use.
func (a *App) Threshold() int {
	return a.loop.Threshold()
}

// MinArea returns the minimum region pixel count in use.
func (a *App) MinArea() int {
	return a.loop.MinArea()
}

// Cooldown returns the notification cooldown in use.
func (a *App) Cooldown() time.Duration {
	return a.loop.Gate().Cooldown()
}

// SaveSnapshot persists the latest annotated frame to the snapshot directory
// and returns the written path.
func (a *App) SaveSnapshot() (string, error) {
	frame, ok := a.LatestFrame()
	if !ok {
		return "", ErrNoFrame
	}

	path, err := render.SaveSnapshot(frame, a.config.SnapshotDir, time.Now())
	if err != nil {
		return "", err
	}

	log.Printf("Snapshot saved: %s", path)
	return path, nil
}
