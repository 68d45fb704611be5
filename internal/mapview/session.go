package mapview

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/ports"
	"trip-map-service/internal/services"
)

const (
	// DefaultZoom frames the whole destination once a center is known.
	DefaultZoom = 12
	// SelectionZoom is the close-in level used when an activity is selected.
	SelectionZoom = 16

	geocodeTimeout = 15 * time.Second
	routeTimeout   = 15 * time.Second
)

// DefaultCenter is held before any destination resolves. Any fixed value
// satisfies the contract; the map simply opens there until geocoding lands.
var DefaultCenter = domain.Coordinate{Lat: 38.7223, Lng: -9.1393}

// Phase of the map view lifecycle. A session is Idle until the first
// successful geocode, Centered afterwards, and stays live (re-centering and
// reacting to selection) until closed.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseCentered Phase = "centered"
)

// Session is the server-side owner of one itinerary map: resolved center,
// derived placements, the single live route, camera, popup and selection.
//
// Geocoding is asynchronous. Every request carries a sequence number and a
// completion is applied only while its number is still the latest, so a slow
// resolution for a replaced destination can never overwrite newer state.
type Session struct {
	mu sync.Mutex

	id        string
	itinerary domain.Itinerary

	phase Phase
	// resolvedCenter anchors placement derivation; camera center follows it
	// on resolution but moves independently when a selection pans the view.
	resolvedCenter domain.Coordinate
	cameraCenter   domain.Coordinate
	zoom           int

	placed     []domain.PlacedLocation
	selectedID string
	popupID    string

	routes     *RouteComposer
	geocoder   ports.Geocoder
	geocodeSeq uint64
	closed     bool
}

func NewSession(itinerary domain.Itinerary, geocoder ports.Geocoder, provider ports.RouteProvider) *Session {
	s := &Session{
		id:             uuid.NewString(),
		itinerary:      itinerary,
		phase:          PhaseIdle,
		resolvedCenter: DefaultCenter,
		cameraCenter:   DefaultCenter,
		zoom:           DefaultZoom,
		routes:         NewRouteComposer(provider),
		geocoder:       geocoder,
	}
	s.rederiveLocked()
	return s
}

func (s *Session) ID() string { return s.id }

// refreshCenter issues a new geocode request for the current destination.
// The lookup runs in its own goroutine; the sequence number taken here
// decides whether its eventual result is still current.
func (s *Session) refreshCenter() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.geocodeSeq++
	seq := s.geocodeSeq
	dest := s.itinerary.Destination
	s.mu.Unlock()

	go s.resolve(seq, dest)
}

// resolve performs one geocode lookup and applies the result if the request
// is still the latest. Failures keep the center the session already holds;
// the map never breaks visibly over a missed lookup.
func (s *Session) resolve(seq uint64, destination string) {
	ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
	defer cancel()

	coord, err := s.geocoder.ResolveCenter(ctx, destination)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.geocodeSeq {
		// A newer destination was requested while this lookup was in
		// flight; its result must not overwrite the newer state.
		return
	}
	if err != nil {
		log.Printf("geocode failed: session=%s dest=%q err=%v", s.id, destination, err)
		return
	}

	s.phase = PhaseCentered
	s.resolvedCenter = coord
	s.cameraCenter = coord
	s.rederiveLocked()
}

// SetItinerary loads a new itinerary into the session: placements are
// rebuilt immediately around the current center and a fresh geocode request
// is issued for the new destination.
func (s *Session) SetItinerary(itinerary domain.Itinerary) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.itinerary = itinerary
	s.rederiveLocked()
	s.mu.Unlock()

	s.refreshCenter()
}

// Select reacts to an externally chosen activity id. A known id opens that
// marker's popup and pans the camera close in; an unknown or stale id leaves
// all state unchanged. The empty id clears selection and popup.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if id == "" {
		s.selectedID = ""
		s.popupID = ""
		return
	}

	p := s.findPlacedLocked(id)
	if p == nil {
		return
	}

	s.selectedID = id
	s.popupID = id
	s.cameraCenter = p.Position
	s.zoom = SelectionZoom
}

// Close tears the session down. Idempotent; late geocode results and repeat
// closes are absorbed silently.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.routes.Teardown()
}

// rederiveLocked rebuilds the placement list and the route from the current
// itinerary and resolved center. The whole list is replaced, never patched;
// a selection pointing at an id that no longer exists is dropped. Route
// composition is handed off to the composer's goroutine, so the session lock
// is never held across a routing call.
func (s *Session) rederiveLocked() {
	s.placed = services.DeriveLocations(s.itinerary, s.resolvedCenter)

	if s.selectedID != "" && s.findPlacedLocked(s.selectedID) == nil {
		s.selectedID = ""
		s.popupID = ""
	}

	waypoints := make([]domain.Coordinate, 0, len(s.placed))
	for _, p := range s.placed {
		waypoints = append(waypoints, p.Position)
	}

	s.routes.Compose(waypoints)
}

func (s *Session) findPlacedLocked(id string) *domain.PlacedLocation {
	for i := range s.placed {
		if s.placed[i].ID == id {
			return &s.placed[i]
		}
	}
	return nil
}
