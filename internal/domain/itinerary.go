package domain

// Itinerary is a complete AI-generated travel plan for one destination.
// It arrives fully formed from the upstream generator and is never mutated
// by this service; all derived map state is recomputed from it wholesale.
type Itinerary struct {
	Destination string
	Summary     string
	Days        []Day
}

// Day is one itinerary day. The position of a Day inside Itinerary.Days and
// of an Activity inside Day.Activities is load-bearing: placement of every
// activity on the map is a pure function of those indices.
type Day struct {
	Day        int // 1-based sequence number
	Title      string
	Activities []Activity
}

// Activity is a single itinerary stop. Location is free text, not a
// structured address; a real coordinate for it does not exist.
type Activity struct {
	Time        string
	Description string
	Location    string
	ImageURL    string
	TicketPrice string
}

// StoredItinerary pairs an itinerary with its repository identity.
type StoredItinerary struct {
	ID int64
	Itinerary
}
