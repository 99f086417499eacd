package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/vigil/internal/detect"
	"github.com/ayusman/vigil/internal/render"
	"github.com/ayusman/vigil/internal/store"
)

// runPipeline is the main detection loop. One frame is fully processed before
// the next is accepted; only alert delivery runs outside this goroutine.
//
// Per tick:
// 1. Read a frame from the camera
// 2. Run the detection pipeline (normalize, diff, extract, gate)
// 3. Render the annotated frame and publish it for the stream
// 4. Persist a motion event when regions were found
// 5. Hand the result to the alert dispatcher when the gate fired
//
// Frame errors are logged and skip the tick; the loop itself never dies.
func (a *App) runPipeline(stopCh chan struct{}) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	// Consecutive dimension mismatches, see mismatchResetLimit.
	mismatches := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			outcome, err := a.loop.Process(frame.Image, frame.Timestamp)
			if err != nil {
				log.Printf("Error processing frame: %v", err)

				if errors.Is(err, detect.ErrDimensionMismatch) {
					mismatches++
					if mismatches >= mismatchResetLimit {
						log.Printf("Frame dimensions changed persistently, re-priming reference")
						a.loop.Reset()
						mismatches = 0
					}
				}
				continue
			}
			mismatches = 0

			annotated := render.Annotate(frame.Image, outcome.Result)

			a.mu.Lock()
			a.latest = annotated
			a.lastResult = outcome.Result
			a.hasResult = true
			a.mu.Unlock()

			if outcome.Result.Motion() {
				a.recordEvent(outcome)
			}

			// Fire-and-forget: the dispatcher owns delivery and its failures.
			if outcome.Notify {
				log.Printf("Motion alert: %d object(s) detected", outcome.Result.Count)
				a.dispatcher.Dispatch(outcome.Result)
			}
		}
	}
}

// recordEvent persists a motion detection to the event log.
func (a *App) recordEvent(outcome detect.Outcome) {
	if a.config.Store == nil {
		return
	}

	regions := make([]store.RegionRecord, len(outcome.Result.Regions))
	for i, r := range outcome.Result.Regions {
		regions[i] = store.RegionRecord{
			X:    r.Bounds.Min.X,
			Y:    r.Bounds.Min.Y,
			W:    r.Bounds.Dx(),
			H:    r.Bounds.Dy(),
			Area: r.Area,
		}
	}

	event := &store.Event{
		OccurredAt: outcome.Result.Timestamp,
		Count:      outcome.Result.Count,
		Regions:    regions,
		Notified:   outcome.Notify,
	}

	if err := a.config.Store.Events().Create(event); err != nil {
		log.Printf("Failed to record motion event: %v", err)
	}
}
