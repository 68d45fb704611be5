package ports

import (
	"context"

	"trip-map-service/internal/domain"
)

// Contract for computing a drawable road path through ordered waypoints.
//
// Implementations must request exactly one route: no alternatives, no
// waypoint editing, no provider-rendered markers. Marker rendering belongs
// to the map view, never to the routing service.
type RouteProvider interface {
	// Route requires at least two waypoints, in travel order.
	Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RoutePath, error)
}
