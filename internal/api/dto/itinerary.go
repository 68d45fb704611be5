package dto

import "trip-map-service/internal/domain"

// Payload shapes mirror the upstream generator's JSON: day/activity field
// names (imageUrl, ticketPrice) are part of that external contract.

type ActivityPayload struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl,omitempty"`
	TicketPrice string `json:"ticketPrice,omitempty"`
}

type DayPayload struct {
	Day        int               `json:"day"`
	Title      string            `json:"title"`
	Activities []ActivityPayload `json:"activities"`
}

type ItineraryPayload struct {
	Destination string       `json:"destination"`
	Summary     string       `json:"summary"`
	Days        []DayPayload `json:"days"`
}

type ItineraryResponse struct {
	ID int64 `json:"id"`
	ItineraryPayload
}

type ListItinerariesResponse struct {
	Itineraries []ItineraryResponse `json:"itineraries"`
}

type CreateItineraryResponse struct {
	ID int64 `json:"id"`
}

// ToDomain converts the wire payload into the immutable domain itinerary.
func (p ItineraryPayload) ToDomain() domain.Itinerary {
	days := make([]domain.Day, 0, len(p.Days))
	for _, d := range p.Days {
		acts := make([]domain.Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, domain.Activity{
				Time:        a.Time,
				Description: a.Description,
				Location:    a.Location,
				ImageURL:    a.ImageURL,
				TicketPrice: a.TicketPrice,
			})
		}
		days = append(days, domain.Day{Day: d.Day, Title: d.Title, Activities: acts})
	}
	return domain.Itinerary{Destination: p.Destination, Summary: p.Summary, Days: days}
}

// ItineraryFromDomain converts a domain itinerary into its wire payload.
func ItineraryFromDomain(it domain.Itinerary) ItineraryPayload {
	days := make([]DayPayload, 0, len(it.Days))
	for _, d := range it.Days {
		acts := make([]ActivityPayload, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, ActivityPayload{
				Time:        a.Time,
				Description: a.Description,
				Location:    a.Location,
				ImageURL:    a.ImageURL,
				TicketPrice: a.TicketPrice,
			})
		}
		days = append(days, DayPayload{Day: d.Day, Title: d.Title, Activities: acts})
	}
	return ItineraryPayload{Destination: it.Destination, Summary: it.Summary, Days: days}
}
