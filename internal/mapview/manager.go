package mapview

import (
	"sync"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/ports"
)

// Manager tracks live map sessions by id. It is the only writer of the
// session table; sessions themselves guard their own state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	geocoder ports.Geocoder
	provider ports.RouteProvider
}

func NewManager(geocoder ports.Geocoder, provider ports.RouteProvider) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		geocoder: geocoder,
		provider: provider,
	}
}

// Open creates a session for the itinerary and starts resolving its
// destination in the background.
func (m *Manager) Open(itinerary domain.Itinerary) *Session {
	s := NewSession(itinerary, m.geocoder, m.provider)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	s.refreshCenter()
	return s
}

// Get returns the session with the given id, if it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Close tears down and forgets the session. Closing an unknown id is a
// harmless no-op, so delete is idempotent from the API's point of view.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}
