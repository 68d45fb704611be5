package services

import (
	"math"

	"trip-map-service/internal/domain"
)

// baseSpread controls how far placements scatter around the resolved center,
// in decimal degrees. Small enough that all activities cluster visibly near
// the destination, large enough that repeated location names on different
// days do not stack on the same pixel.
const baseSpread = 0.015

// hashLocation computes a rolling multiply-and-add hash of the location text
// over its Unicode code points. Arithmetic wraps in signed 32-bit
// (two's-complement); the wrap width is part of the placement contract and
// must not change, since the numeric hash value decides the map position.
func hashLocation(location string) int32 {
	var h int32
	for _, r := range location {
		h = h*31 + r
	}
	return h
}

// Place maps an activity to a deterministic pseudo-coordinate near center.
//
// Real coordinates do not exist for free-text location names, so the position
// is a stable decoration: the same location string, day index, activity index
// and center always produce the same output, across runs and across hosts.
// Day and activity indices scale the offset so that identical location names
// in different itinerary slots land on distinct points. Never fails; the
// empty string is a valid input.
func Place(location string, dayIndex, activityIndex int, center domain.Coordinate) domain.Coordinate {
	h := hashLocation(location)
	p := math.Abs(float64(h)) / float64(math.MaxInt32)

	latOffset := (p - 0.5) * baseSpread * (float64(dayIndex) + 1.5)
	lngOffset := ((1 - p) - 0.5) * baseSpread * (float64(activityIndex) + 1.5)

	return domain.Coordinate{
		Lat: center.Lat + latOffset,
		Lng: center.Lng + lngOffset,
	}
}
