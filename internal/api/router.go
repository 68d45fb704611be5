package api

import (
	"net/http"

	"trip-map-service/internal/api/handlers"
	"trip-map-service/internal/mapview"
	"trip-map-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.ItineraryRepository, sessions *mapview.Manager) http.Handler {
	mux := http.NewServeMux()

	itineraryHandler := &handlers.ItineraryHandler{Repo: repo}
	sessionHandler := &handlers.SessionHandler{
		Sessions: sessions,
		Repo:     repo,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/itineraries", itineraryHandler.Handle)
	mux.HandleFunc("/sessions", sessionHandler.Open)
	mux.HandleFunc("/sessions/{id}", sessionHandler.HandleByID)
	mux.HandleFunc("/sessions/{id}/itinerary", sessionHandler.LoadItinerary)
	mux.HandleFunc("/sessions/{id}/selection", sessionHandler.Select)
	mux.HandleFunc("/distance", handlers.Distance)

	return loggingMiddleware(mux)
}
