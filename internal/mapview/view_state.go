package mapview

import "trip-map-service/internal/domain"

const (
	markerOpacitySelected = 1.0
	markerOpacityDimmed   = 0.8
)

// Marker describes one activity marker exactly as the map substrate should
// draw it: position, dim state, permanent tooltip and popup payload.
type Marker struct {
	ID       string
	Position domain.Coordinate
	Opacity  float64
	Tooltip  string
	Popup    PopupContent
}

// PopupContent is the detail surface shown when a marker's popup opens.
type PopupContent struct {
	Location    string
	Day         int
	Time        string
	Description string
	ImageURL    string
	TicketPrice string
}

// ViewState is a consistent snapshot of everything a renderer needs: camera,
// markers, the drawn route and the open popup. The snapshot copies all
// mutable data, so callers can hold it without racing the session.
type ViewState struct {
	SessionID  string
	Phase      Phase
	Center     domain.Coordinate
	Zoom       int
	SelectedID string
	PopupID    string
	Markers    []Marker
	Route      *RouteHandle
}

// ViewState returns the current snapshot of the session.
func (s *Session) ViewState() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers := make([]Marker, 0, len(s.placed))
	for _, p := range s.placed {
		opacity := markerOpacityDimmed
		if p.ID == s.selectedID {
			opacity = markerOpacitySelected
		}
		markers = append(markers, Marker{
			ID:       p.ID,
			Position: p.Position,
			Opacity:  opacity,
			Tooltip:  p.Location,
			Popup: PopupContent{
				Location:    p.Location,
				Day:         p.Day,
				Time:        p.Time,
				Description: p.Description,
				ImageURL:    p.ImageURL,
				TicketPrice: p.TicketPrice,
			},
		})
	}

	var route *RouteHandle
	if h := s.routes.Handle(); h != nil {
		cp := *h
		cp.Path.Geometry = append([]domain.Coordinate(nil), h.Path.Geometry...)
		route = &cp
	}

	return ViewState{
		SessionID:  s.id,
		Phase:      s.phase,
		Center:     s.cameraCenter,
		Zoom:       s.zoom,
		SelectedID: s.selectedID,
		PopupID:    s.popupID,
		Markers:    markers,
		Route:      route,
	}
}
