package ports

import (
	"context"

	"trip-map-service/internal/domain"
)

// Persistent cache mapping normalized destination names to coordinates.
// Keys are expected to be normalized consistently by the caller.
type GeocodeCache interface {
	// Get returns the cached coordinate and whether one was present.
	Get(ctx context.Context, destination string) (domain.Coordinate, bool, error)
	// Put stores a destination -> coordinate mapping.
	Put(ctx context.Context, destination string, coord domain.Coordinate) error
}
