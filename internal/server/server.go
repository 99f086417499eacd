// Package server provides the HTTP surface of the Vigil motion watcher:
// health, live stream, event history, detection controls and snapshots.
package server

import (
	"encoding/json"
	"image"
	"net/http"
	"time"

	"github.com/ayusman/vigil/internal/detect"
	"github.com/ayusman/vigil/internal/server/api"
	"github.com/ayusman/vigil/internal/store"
)

// Pipeline is the part of the detection application the server exposes.
// It is implemented by *app.App.
type Pipeline interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
	LatestFrame() (image.Image, bool)
	LastResult() (detect.DetectionResult, bool)
	SaveSnapshot() (string, error)
	Threshold() int
	MinArea() int
	Cooldown() time.Duration
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Pipeline  Pipeline
}

// Server represents the HTTP server for the Vigil application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register the event history API if Store is configured
	if s.config.Store != nil {
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
		s.mux.Handle("/api/events/", api.NewEventsHandler(s.config.Store))
	}

	// Register live endpoints if the detection pipeline is configured
	if s.config.Pipeline != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Pipeline))
		s.mux.Handle("/api/feed", NewFeedHandler(s.config.Pipeline))
		s.mux.HandleFunc("/api/detection", s.handleDetection)
		s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

// detectionResponse describes the detection pipeline's current settings.
type detectionResponse struct {
	Enabled         bool `json:"enabled"`
	Threshold       int  `json:"threshold"`
	MinArea         int  `json:"min_area"`
	CooldownSeconds int  `json:"cooldown_seconds"`
}

type updateDetectionRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleDetection handles GET and PUT requests to /api/detection.
func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req updateDetectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "Missing 'enabled' field")
			return
		}
		s.config.Pipeline.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, detectionResponse{
		Enabled:         s.config.Pipeline.IsEnabled(),
		Threshold:       s.config.Pipeline.Threshold(),
		MinArea:         s.config.Pipeline.MinArea(),
		CooldownSeconds: int(s.config.Pipeline.Cooldown().Seconds()),
	})
}

// handleSnapshot handles POST requests to /api/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := s.config.Pipeline.SaveSnapshot()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
