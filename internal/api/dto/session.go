package dto

import (
	"trip-map-service/internal/domain"
	"trip-map-service/internal/mapview"
)

type OpenSessionRequest struct {
	ItineraryID int64 `json:"itinerary_id"`
}

type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

// LoadItineraryRequest swaps which stored itinerary a live session shows.
type LoadItineraryRequest struct {
	ItineraryID int64 `json:"itinerary_id"`
}

// SelectionRequest carries the externally owned selected activity id.
// null or "" clears the selection.
type SelectionRequest struct {
	SelectedActivityID *string `json:"selected_activity_id"`
}

type CoordinatePayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PopupPayload struct {
	Location    string `json:"location"`
	Day         int    `json:"day"`
	Time        string `json:"time"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	TicketPrice string `json:"ticketPrice,omitempty"`
}

type MarkerPayload struct {
	ID       string            `json:"id"`
	Position CoordinatePayload `json:"position"`
	Opacity  float64           `json:"opacity"`
	Tooltip  string            `json:"tooltip"`
	Popup    PopupPayload      `json:"popup"`
}

type RoutePayload struct {
	ID              string              `json:"id"`
	Geometry        []CoordinatePayload `json:"geometry"`
	DistanceMeters  int                 `json:"distance_meters"`
	DurationSeconds int                 `json:"duration_seconds"`
}

type ViewStateResponse struct {
	SessionID          string            `json:"session_id"`
	Phase              string            `json:"phase"`
	Center             CoordinatePayload `json:"center"`
	Zoom               int               `json:"zoom"`
	SelectedActivityID string            `json:"selected_activity_id,omitempty"`
	PopupID            string            `json:"popup_id,omitempty"`
	Markers            []MarkerPayload   `json:"markers"`
	Route              *RoutePayload     `json:"route,omitempty"`
}

func coordFromDomain(c domain.Coordinate) CoordinatePayload {
	return CoordinatePayload{Lat: c.Lat, Lng: c.Lng}
}

// ViewStateFromSnapshot converts a mapview snapshot into its wire shape.
func ViewStateFromSnapshot(v mapview.ViewState) ViewStateResponse {
	markers := make([]MarkerPayload, 0, len(v.Markers))
	for _, m := range v.Markers {
		markers = append(markers, MarkerPayload{
			ID:       m.ID,
			Position: coordFromDomain(m.Position),
			Opacity:  m.Opacity,
			Tooltip:  m.Tooltip,
			Popup: PopupPayload{
				Location:    m.Popup.Location,
				Day:         m.Popup.Day,
				Time:        m.Popup.Time,
				Description: m.Popup.Description,
				ImageURL:    m.Popup.ImageURL,
				TicketPrice: m.Popup.TicketPrice,
			},
		})
	}

	var route *RoutePayload
	if v.Route != nil {
		geometry := make([]CoordinatePayload, 0, len(v.Route.Path.Geometry))
		for _, c := range v.Route.Path.Geometry {
			geometry = append(geometry, coordFromDomain(c))
		}
		route = &RoutePayload{
			ID:              v.Route.ID,
			Geometry:        geometry,
			DistanceMeters:  v.Route.Path.DistanceMeters,
			DurationSeconds: v.Route.Path.DurationSeconds,
		}
	}

	return ViewStateResponse{
		SessionID:          v.SessionID,
		Phase:              string(v.Phase),
		Center:             coordFromDomain(v.Center),
		Zoom:               v.Zoom,
		SelectedActivityID: v.SelectedID,
		PopupID:            v.PopupID,
		Markers:            markers,
		Route:              route,
	}
}
