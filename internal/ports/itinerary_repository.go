package ports

import (
	"context"

	"trip-map-service/internal/domain"
)

// Port: a boundary for storing and retrieving generator-produced itineraries.
type ItineraryRepository interface {
	// Retrieve all stored itineraries, oldest first.
	ListItineraries(ctx context.Context) ([]domain.StoredItinerary, error)
	// Retrieve one itinerary by id.
	GetItinerary(ctx context.Context, id int64) (domain.StoredItinerary, error)
	// Store a new itinerary and return its assigned id.
	CreateItinerary(ctx context.Context, itinerary domain.Itinerary) (int64, error)
}
