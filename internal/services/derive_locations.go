package services

import (
	"fmt"

	"trip-map-service/internal/domain"
)

// DeriveLocations flattens an itinerary into placed map locations around the
// given center, day-major and activity-minor, preserving source order.
//
// The result is always built from scratch. Callers must replace their whole
// previous list with the returned one rather than patching entries, so the
// placement function stays the only source of position and stale ids cannot
// survive a recompute.
func DeriveLocations(itinerary domain.Itinerary, center domain.Coordinate) []domain.PlacedLocation {
	out := make([]domain.PlacedLocation, 0, countActivities(itinerary))

	for di, day := range itinerary.Days {
		for ai, act := range day.Activities {
			out = append(out, domain.PlacedLocation{
				ID:          fmt.Sprintf("%d-%d", di, ai),
				Position:    Place(act.Location, di, ai, center),
				Location:    act.Location,
				Time:        act.Time,
				Description: act.Description,
				ImageURL:    act.ImageURL,
				TicketPrice: act.TicketPrice,
				Day:         day.Day,
			})
		}
	}

	return out
}

func countActivities(itinerary domain.Itinerary) int {
	n := 0
	for _, day := range itinerary.Days {
		n += len(day.Activities)
	}
	return n
}
