// Package notify delivers external alerts for motion detections. Delivery is
// decoupled from the detection loop: the loop hands a result to a Dispatcher
// and never waits on, or sees failures from, the transport.
package notify

import (
	"log"

	"github.com/ayusman/vigil/internal/detect"
)

// Notifier delivers a single detection alert. Implementations may block on
// network I/O; callers are expected to go through a Dispatcher rather than
// calling Notify on the frame path.
type Notifier interface {
	Notify(result detect.DetectionResult) error
}

// LogNotifier writes alerts to the process log. It stands in for the mailer
// when no SMTP credentials are configured.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the detection and always succeeds.
func (n *LogNotifier) Notify(result detect.DetectionResult) error {
	log.Printf("ALERT: motion detected at %s (%d objects)",
		result.Timestamp.Format("2006-01-02 15:04:05"), result.Count)
	return nil
}
