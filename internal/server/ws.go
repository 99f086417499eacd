package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/vigil/internal/detect"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// feedInterval is how often the feed polls the pipeline for a new result.
const feedInterval = 100 * time.Millisecond

// regionMessage is the wire form of one detected region.
type regionMessage struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	Area int `json:"area"`
}

// detectionMessage is the wire form of a broadcast detection.
type detectionMessage struct {
	Count     int             `json:"count"`
	Timestamp int64           `json:"timestamp"`
	Regions   []regionMessage `json:"regions"`
}

// FeedHandler broadcasts motion detections to WebSocket clients.
type FeedHandler struct {
	pipeline Pipeline
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

// NewFeedHandler creates a FeedHandler and starts its broadcast loop.
func NewFeedHandler(pipeline Pipeline) *FeedHandler {
	h := &FeedHandler{
		pipeline: pipeline,
		clients:  make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes each new motion detection to all connected clients.
// Results are polled from the pipeline; a result is new when its timestamp
// moved forward.
func (h *FeedHandler) broadcast() {
	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	var lastSent time.Time
	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		result, ok := h.pipeline.LastResult()
		if !ok || !result.Motion() || !result.Timestamp.After(lastSent) {
			continue
		}
		lastSent = result.Timestamp

		msg, err := json.Marshal(toMessage(result))
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}

func toMessage(result detect.DetectionResult) detectionMessage {
	regions := make([]regionMessage, len(result.Regions))
	for i, r := range result.Regions {
		regions[i] = regionMessage{
			X:    r.Bounds.Min.X,
			Y:    r.Bounds.Min.Y,
			W:    r.Bounds.Dx(),
			H:    r.Bounds.Dy(),
			Area: r.Area,
		}
	}
	return detectionMessage{
		Count:     result.Count,
		Timestamp: result.Timestamp.UnixMilli(),
		Regions:   regions,
	}
}
