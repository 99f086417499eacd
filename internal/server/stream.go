package server

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"net/http"
	"time"
)

// streamInterval is the pacing of MJPEG frames sent to clients.
const streamInterval = 100 * time.Millisecond

// StreamHandler serves the latest annotated frame as an MJPEG stream.
type StreamHandler struct {
	pipeline Pipeline
}

// NewStreamHandler creates a new StreamHandler over the given pipeline.
func NewStreamHandler(pipeline Pipeline) *StreamHandler {
	return &StreamHandler{pipeline: pipeline}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame, ok := h.pipeline.LatestFrame()
		if !ok {
			continue
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, frame, nil); err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		if _, err := w.Write(buf.Bytes()); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if flusher != nil {
			flusher.Flush()
		}
	}
}
