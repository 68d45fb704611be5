package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health provides a minimal liveness check endpoint. It deliberately does not
// probe the database or the external geocoding/routing services: the map
// degrades per session when those fail, the process itself stays healthy.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "trip-map-service",
	})
}
