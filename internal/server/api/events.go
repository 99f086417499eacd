// Package api provides HTTP API handlers for the Vigil motion detection system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/vigil/internal/store"
)

// EventsHandler handles HTTP requests for motion event resources.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/events or /api/events/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/events
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/events/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type regionResponse struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	Area int `json:"area"`
}

type eventResponse struct {
	ID         string           `json:"id"`
	OccurredAt string           `json:"occurred_at"`
	Count      int              `json:"count"`
	Regions    []regionResponse `json:"regions"`
	Notified   bool             `json:"notified"`
	CreatedAt  string           `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Event to an eventResponse.
func toResponse(e *store.Event) eventResponse {
	regions := make([]regionResponse, 0, len(e.Regions))
	for _, reg := range e.Regions {
		regions = append(regions, regionResponse{
			X:    reg.X,
			Y:    reg.Y,
			W:    reg.W,
			H:    reg.H,
			Area: reg.Area,
		})
	}
	return eventResponse{
		ID:         e.ID,
		OccurredAt: e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		Count:      e.Count,
		Regions:    regions,
		Notified:   e.Notified,
		CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
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
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/events and returns recent events, newest first.
// An optional ?limit= query parameter caps the result size; the default is 50.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.store.Events().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, toResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/events/{id} and returns a single event.
func (h *EventsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	event, err := h.store.Events().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(event))
}

// delete handles DELETE /api/events/{id} and removes a single event.
func (h *EventsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Events().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
