package notify

import (
	"log"
	"sync"

	"github.com/ayusman/vigil/internal/detect"
)

// DefaultQueueSize is the dispatch queue capacity used when none is given.
const DefaultQueueSize = 8

// Dispatcher delivers alerts asynchronously. Dispatch never blocks: alerts
// are queued for a worker goroutine, and when the queue is full the alert is
// dropped and logged. The cooldown gate already committed its state by the
// time an alert reaches the dispatcher, so a drop or delivery failure here
// cannot re-open the gate or disturb the detection loop.
type Dispatcher struct {
	notifier Notifier
	queue    chan detect.DetectionResult
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewDispatcher creates a Dispatcher around the given notifier and starts its
// delivery worker. A non-positive queueSize falls back to DefaultQueueSize.
func NewDispatcher(notifier Notifier, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan detect.DetectionResult, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// run delivers queued alerts until the queue is closed. Failures are logged
// and otherwise ignored.
func (d *Dispatcher) run() {
	defer close(d.done)
	for result := range d.queue {
		if err := d.notifier.Notify(result); err != nil {
			log.Printf("Notification failed: %v", err)
		}
	}
}

// Dispatch queues an alert for delivery without blocking. Alerts dispatched
// after Stop, or while the queue is full, are dropped with a log line.
func (d *Dispatcher) Dispatch(result detect.DetectionResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		log.Printf("Dispatcher stopped, dropping alert (%d objects)", result.Count)
		return
	}

	select {
	case d.queue <- result:
	default:
		log.Printf("Notification queue full, dropping alert (%d objects)", result.Count)
	}
}

// Stop closes the queue and waits for queued alerts to be delivered.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
