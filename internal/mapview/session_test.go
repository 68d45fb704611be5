package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"trip-map-service/internal/domain"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	centers map[string]domain.Coordinate
	calls   int
}

func (f *fakeGeocoder) ResolveCenter(ctx context.Context, destination string) (domain.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	c, ok := f.centers[destination]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("no result for %q", destination)
	}
	return c, nil
}

type fakeRouteProvider struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeRouteProvider) Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RoutePath, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.fail {
		return domain.RoutePath{}, errors.New("routing unavailable")
	}
	return domain.RoutePath{
		Geometry:        append([]domain.Coordinate(nil), waypoints...),
		DistanceMeters:  1000 * (len(waypoints) - 1),
		DurationSeconds: 60 * (len(waypoints) - 1),
	}, nil
}

func (f *fakeRouteProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockingRouteProvider stalls every call until release is closed. It stands
// in for a slow routing service; calls is counted only once a call returns.
type blockingRouteProvider struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (p *blockingRouteProvider) Route(ctx context.Context, waypoints []domain.Coordinate) (domain.RoutePath, error) {
	select {
	case <-p.release:
	case <-ctx.Done():
		return domain.RoutePath{}, ctx.Err()
	}

	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	return domain.RoutePath{
		Geometry:        append([]domain.Coordinate(nil), waypoints...),
		DistanceMeters:  1000 * (len(waypoints) - 1),
		DurationSeconds: 60 * (len(waypoints) - 1),
	}, nil
}

func (p *blockingRouteProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

var (
	romeCenter  = domain.Coordinate{Lat: 41.9028, Lng: 12.4964}
	tokyoCenter = domain.Coordinate{Lat: 35.6764, Lng: 139.6500}
	parisCenter = domain.Coordinate{Lat: 48.8566, Lng: 2.3522}
)

func testItinerary(destination string) domain.Itinerary {
	return domain.Itinerary{
		Destination: destination,
		Summary:     "test plan",
		Days: []domain.Day{
			{
				Day:   1,
				Title: "Day one",
				Activities: []domain.Activity{
					{Time: "09:00", Description: "First stop", Location: "Eiffel Tower", TicketPrice: "€28"},
					{Time: "14:00", Description: "Second stop", Location: "Louvre Museum"},
				},
			},
			{
				Day:   2,
				Title: "Day two",
				Activities: []domain.Activity{
					{Time: "10:00", Description: "Third stop", Location: "Arc de Triomphe"},
				},
			},
		},
	}
}

func waitForPhase(t *testing.T, s *Session, want Phase) ViewState {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v := s.ViewState(); v.Phase == want {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached phase %q", want)
	return ViewState{}
}

// waitForRoute polls until the session's route attaches. Composition runs in
// its own goroutine, so the handle appears shortly after derivation.
func waitForRoute(t *testing.T, s *Session) *RouteHandle {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v := s.ViewState(); v.Route != nil {
			return v.Route
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("route never attached")
	return nil
}

func TestSessionStartsIdleAtDefaultCenter(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	v := s.ViewState()
	if v.Phase != PhaseIdle {
		t.Fatalf("phase = %q, want idle", v.Phase)
	}
	if v.Center != DefaultCenter {
		t.Fatalf("center = %+v, want default", v.Center)
	}
	if v.Zoom != DefaultZoom {
		t.Fatalf("zoom = %d, want %d", v.Zoom, DefaultZoom)
	}
	// Placements exist even before resolution, anchored at the default.
	if len(v.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(v.Markers))
	}
	waitForRoute(t, s)
}

func TestSessionCentersAfterResolve(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.refreshCenter()

	v := waitForPhase(t, s, PhaseCentered)
	if v.Center != parisCenter {
		t.Fatalf("center = %+v, want Paris", v.Center)
	}
	if v.Zoom != DefaultZoom {
		t.Fatalf("re-center must keep zoom, got %d", v.Zoom)
	}

	// Every placement follows the resolved center.
	for _, m := range v.Markers {
		if dLat := m.Position.Lat - parisCenter.Lat; dLat > 0.1 || dLat < -0.1 {
			t.Fatalf("marker %s did not move with the center: %+v", m.ID, m.Position)
		}
	}
}

func TestStaleGeocodeResultRejected(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{
		"Rome":  romeCenter,
		"Tokyo": tokyoCenter,
	}}
	s := NewSession(testItinerary("Rome"), geo, &fakeRouteProvider{})

	// Two requests issued back to back: Rome first, Tokyo second.
	s.mu.Lock()
	s.geocodeSeq++
	romeSeq := s.geocodeSeq
	s.geocodeSeq++
	tokyoSeq := s.geocodeSeq
	s.mu.Unlock()

	// The newer request completes first; the older one limps in afterwards
	// and must be discarded regardless of completion order.
	s.resolve(tokyoSeq, "Tokyo")
	s.resolve(romeSeq, "Rome")

	v := s.ViewState()
	if v.Center != tokyoCenter {
		t.Fatalf("center = %+v, want Tokyo (stale Rome result applied)", v.Center)
	}
}

func TestGeocodeFailureKeepsCurrentCenter(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{}}
	s := NewSession(testItinerary("Atlantis"), geo, &fakeRouteProvider{})

	s.mu.Lock()
	s.geocodeSeq++
	seq := s.geocodeSeq
	s.mu.Unlock()

	s.resolve(seq, "Atlantis")

	v := s.ViewState()
	if v.Phase != PhaseIdle {
		t.Fatalf("failed resolution must not advance phase, got %q", v.Phase)
	}
	if v.Center != DefaultCenter {
		t.Fatalf("failed resolution must keep the held center, got %+v", v.Center)
	}
}

func TestSelectRoundTrip(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.Select("1-0")

	v := s.ViewState()
	if v.SelectedID != "1-0" || v.PopupID != "1-0" {
		t.Fatalf("selection state = %q/%q, want 1-0/1-0", v.SelectedID, v.PopupID)
	}
	if v.Zoom != SelectionZoom {
		t.Fatalf("zoom = %d, want selection zoom %d", v.Zoom, SelectionZoom)
	}

	var selected, dimmed int
	for _, m := range v.Markers {
		switch {
		case m.ID == "1-0":
			if m.Opacity != 1.0 {
				t.Fatalf("selected marker opacity = %f, want 1.0", m.Opacity)
			}
			if v.Center != m.Position {
				t.Fatalf("camera = %+v, want marker position %+v", v.Center, m.Position)
			}
			selected++
		default:
			if m.Opacity != 0.8 {
				t.Fatalf("unselected marker opacity = %f, want 0.8", m.Opacity)
			}
			dimmed++
		}
	}
	if selected != 1 || dimmed != 2 {
		t.Fatalf("marker split = %d selected / %d dimmed", selected, dimmed)
	}
}

func TestSelectUnknownIDIsNoOp(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.Select("1-0")
	before := s.ViewState()

	s.Select("9-9")

	after := s.ViewState()
	if after.SelectedID != before.SelectedID || after.Center != before.Center || after.Zoom != before.Zoom {
		t.Fatalf("unknown id changed state: %+v -> %+v", before, after)
	}
}

func TestSelectEmptyClearsSelectionAndPopup(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.Select("0-1")
	s.Select("")

	v := s.ViewState()
	if v.SelectedID != "" || v.PopupID != "" {
		t.Fatalf("selection not cleared: %q/%q", v.SelectedID, v.PopupID)
	}
}

func TestSetItineraryReplacesDerivedStateAndDropsStaleSelection(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{
		"Paris": parisCenter,
		"Rome":  romeCenter,
	}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.Select("1-0")

	single := domain.Itinerary{
		Destination: "Rome",
		Days: []domain.Day{
			{Day: 1, Title: "Only day", Activities: []domain.Activity{
				{Time: "09:00", Description: "Forum", Location: "Roman Forum"},
			}},
		},
	}
	s.SetItinerary(single)

	v := waitForPhase(t, s, PhaseCentered)
	if len(v.Markers) != 1 {
		t.Fatalf("markers = %d, want 1 after itinerary replacement", len(v.Markers))
	}
	if v.SelectedID != "" || v.PopupID != "" {
		t.Fatalf("stale selection survived replacement: %q/%q", v.SelectedID, v.PopupID)
	}
	// One waypoint cannot form a route; the old one must be gone.
	if v.Route != nil {
		t.Fatal("route survived a derivation that has <2 waypoints")
	}
	if v.Center != romeCenter {
		t.Fatalf("center = %+v, want Rome", v.Center)
	}
}

func TestCloseIsIdempotentAndAbsorbsLateResults(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	s := NewSession(testItinerary("Paris"), geo, &fakeRouteProvider{})

	s.mu.Lock()
	s.geocodeSeq++
	seq := s.geocodeSeq
	s.mu.Unlock()

	s.Close()
	s.Close()

	// A geocode completing after teardown must be swallowed silently.
	s.resolve(seq, "Paris")

	v := s.ViewState()
	if v.Phase != PhaseIdle {
		t.Fatalf("late result applied after close: phase %q", v.Phase)
	}
	if v.Route != nil {
		t.Fatal("route still attached after close")
	}
}

func TestRouteCompositionDoesNotBlockSession(t *testing.T) {
	provider := &blockingRouteProvider{release: make(chan struct{})}
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}

	// NewSession must return while the provider is still stuck.
	created := make(chan *Session, 1)
	go func() { created <- NewSession(testItinerary("Paris"), geo, provider) }()

	var s *Session
	select {
	case s = <-created:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("session creation blocked on route composition")
	}

	// Reads and selection stay responsive while the route is in flight.
	got := make(chan ViewState, 1)
	go func() {
		s.Select("0-1")
		got <- s.ViewState()
	}()

	select {
	case v := <-got:
		if v.Route != nil {
			t.Fatal("route attached before the provider returned")
		}
		if v.SelectedID != "0-1" {
			t.Fatalf("selection = %q, want 0-1", v.SelectedID)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("ViewState blocked while route composition was in flight")
	}

	// Once the provider answers, the route attaches as usual.
	close(provider.release)
	waitForRoute(t, s)
}

func TestManagerLifecycle(t *testing.T) {
	geo := &fakeGeocoder{centers: map[string]domain.Coordinate{"Paris": parisCenter}}
	m := NewManager(geo, &fakeRouteProvider{})

	s := m.Open(testItinerary("Paris"))

	got, ok := m.Get(s.ID())
	if !ok || got != s {
		t.Fatal("manager lost the session it opened")
	}

	waitForPhase(t, s, PhaseCentered)

	if !m.Close(s.ID()) {
		t.Fatal("close reported unknown session")
	}
	if m.Close(s.ID()) {
		t.Fatal("second close should report unknown session")
	}
	if _, ok := m.Get(s.ID()); ok {
		t.Fatal("closed session still retrievable")
	}
}
