package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"trip-map-service/internal/api/dto"
	"trip-map-service/internal/ports"
)

// ItineraryHandler exposes storage endpoints for generator-produced
// itineraries. It never validates day/activity content beyond shape: data
// correctness is the upstream generator's responsibility.
type ItineraryHandler struct {
	Repo ports.ItineraryRepository
}

func (h *ItineraryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ItineraryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListItineraries(r.Context())
	if err != nil {
		log.Printf("list itineraries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListItinerariesResponse{
		Itineraries: make([]dto.ItineraryResponse, 0, len(items)),
	}
	for _, item := range items {
		res.Itineraries = append(res.Itineraries, dto.ItineraryResponse{
			ID:               item.ID,
			ItineraryPayload: dto.ItineraryFromDomain(item.Itinerary),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.ItineraryPayload

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

	if strings.TrimSpace(req.Destination) == "" {
		writeError(w, r, http.StatusBadRequest, "destination is required")
		return
	}
	if len(req.Days) == 0 {
		writeError(w, r, http.StatusBadRequest, "days must not be empty")
		return
	}

	id, err := h.Repo.CreateItinerary(r.Context(), req.ToDomain())
	if err != nil {
		log.Printf("create itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.CreateItineraryResponse{ID: id})
}
