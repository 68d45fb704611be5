package dto

type DistanceResponse struct {
	DistanceKm float64 `json:"distance_km"`
}
