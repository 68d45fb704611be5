package handlers

import (
	"net/http"
	"strconv"

	"trip-map-service/internal/api/dto"
	"trip-map-service/internal/domain"
	"trip-map-service/internal/services"
)

// Distance is a stateless utility endpoint returning the great-circle
// distance between two coordinates, e.g. for "how far is this destination
// from me" displays.
func Distance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, ok := parseCoord(r, "from_lat", "from_lng")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "from_lat and from_lng must be valid coordinates")
		return
	}
	to, ok := parseCoord(r, "to_lat", "to_lng")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "to_lat and to_lng must be valid coordinates")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		DistanceKm: services.DistanceKm(from, to),
	})
}

func parseCoord(r *http.Request, latKey, lngKey string) (domain.Coordinate, bool) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get(latKey), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get(lngKey), 64)
	if err != nil {
		return domain.Coordinate{}, false
	}

	c := domain.Coordinate{Lat: lat, Lng: lng}
	return c, c.Valid()
}
