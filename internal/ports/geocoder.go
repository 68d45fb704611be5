package ports

import (
	"context"

	"trip-map-service/internal/domain"
)

// Contract for resolving a free-text destination name to a single center
// coordinate. Implementations take the first candidate of whatever lookup
// service backs them; callers treat any error as "keep the center you have".
type Geocoder interface {
	ResolveCenter(ctx context.Context, destination string) (domain.Coordinate, error)
}
