package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"trip-map-service/internal/adapters/repositories"
	"trip-map-service/internal/api/dto"
	"trip-map-service/internal/mapview"
	"trip-map-service/internal/ports"
)

// SessionHandler exposes the map session lifecycle: open a session for a
// stored itinerary, read its view state, drive the selection bridge, and
// close it. The session itself owns all map state; handlers only translate.
type SessionHandler struct {
	Sessions *mapview.Manager
	Repo     ports.ItineraryRepository
}

// Open creates a map session for an itinerary and starts resolving its
// destination center in the background.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OpenSessionRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.ItineraryID <= 0 {
		writeError(w, r, http.StatusBadRequest, "itinerary_id is required")
		return
	}

	item, err := h.Repo.GetItinerary(r.Context(), req.ItineraryID)
	if errors.Is(err, repositories.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "itinerary not found")
		return
	}
	if err != nil {
		log.Printf("open session failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	s := h.Sessions.Open(item.Itinerary)

	writeJSON(w, r, http.StatusCreated, dto.OpenSessionResponse{SessionID: s.ID()})
}

// HandleByID dispatches view-state reads and session teardown.
func (h *SessionHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.viewState(w, r)
	case http.MethodDelete:
		h.close(w, r)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SessionHandler) viewState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ViewStateFromSnapshot(s.ViewState()))
}

func (h *SessionHandler) close(w http.ResponseWriter, r *http.Request) {
	// Closing twice is fine: teardown is idempotent and a missing session
	// gets the same response as a just-removed one.
	h.Sessions.Close(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// LoadItinerary swaps the itinerary a live session shows. Placements are
// rebuilt immediately around the held center and a fresh geocode for the new
// destination starts in the background.
func (h *SessionHandler) LoadItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPut)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, ok := h.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}

	var req dto.LoadItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.ItineraryID <= 0 {
		writeError(w, r, http.StatusBadRequest, "itinerary_id is required")
		return
	}

	item, err := h.Repo.GetItinerary(r.Context(), req.ItineraryID)
	if errors.Is(err, repositories.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "itinerary not found")
		return
	}
	if err != nil {
		log.Printf("load itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	s.SetItinerary(item.Itinerary)

	writeJSON(w, r, http.StatusOK, dto.ViewStateFromSnapshot(s.ViewState()))
}

// Select applies an externally chosen activity id to the session. Selection
// flows one way: the list UI owns the id, the map only reacts.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPut)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, ok := h.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}

	var req dto.SelectionRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	id := ""
	if req.SelectedActivityID != nil {
		id = *req.SelectedActivityID
	}
	s.Select(id)

	writeJSON(w, r, http.StatusOK, dto.ViewStateFromSnapshot(s.ViewState()))
}
