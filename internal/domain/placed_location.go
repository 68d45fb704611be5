package domain

// PlacedLocation is a derived map position for one itinerary activity.
//
// Positions are synthetic: they are produced by a deterministic placement
// function, not by geocoding each activity. The full list is recreated
// whenever the itinerary or the resolved center changes and is never
// patched in place, so an id always refers to exactly one derivation.
type PlacedLocation struct {
	ID          string // "dayIndex-activityIndex", both 0-based
	Position    Coordinate
	Location    string
	Time        string
	Description string
	ImageURL    string
	TicketPrice string
	Day         int // 1-based day number for display badges
}
