package mapview

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/ports"
)

// RouteHandle is the live, disposable resource representing the currently
// drawn path. Exactly one may exist per session at a time.
type RouteHandle struct {
	ID   string
	Path domain.RoutePath
}

// RouteComposer owns the single route slot of one map session. Only the
// composer creates or destroys handles; everything else reads them.
//
// Composition is asynchronous: Compose detaches the old route immediately and
// lets the provider call run in its own goroutine, so callers never wait on
// the routing service. Every Compose/Teardown bumps a sequence number and a
// finished provider call attaches its handle only while its number is still
// the latest, mirroring how geocode results are guarded.
type RouteComposer struct {
	mu       sync.Mutex
	provider ports.RouteProvider
	seq      uint64
	handle   *RouteHandle
}

func NewRouteComposer(provider ports.RouteProvider) *RouteComposer {
	return &RouteComposer{provider: provider}
}

// Compose replaces the live route with one drawn through the waypoints in
// order. The previous handle is always detached first, so at no point do two
// routes coexist. With fewer than two waypoints no route is drawn and the
// slot stays empty. The new route attaches once the provider answers, unless
// a newer Compose or Teardown happened in the meantime.
func (c *RouteComposer) Compose(waypoints []domain.Coordinate) {
	c.mu.Lock()
	c.handle = nil
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if len(waypoints) < 2 {
		return
	}
	if c.provider == nil {
		return
	}

	go c.compose(seq, waypoints)
}

// compose performs one provider call and attaches the result if the request
// is still the latest. A provider failure is logged and leaves the slot
// empty; the map stays usable without a drawn path.
func (c *RouteComposer) compose(seq uint64, waypoints []domain.Coordinate) {
	ctx, cancel := context.WithTimeout(context.Background(), routeTimeout)
	defer cancel()

	path, err := c.provider.Route(ctx, waypoints)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// The slot was recomposed or torn down while this call was in
		// flight; its result must not overwrite the newer state.
		return
	}
	if err != nil {
		log.Printf("route create failed: waypoints=%d err=%v", len(waypoints), err)
		return
	}

	c.handle = &RouteHandle{ID: uuid.NewString(), Path: path}
}

// Teardown detaches the live route, if any, and invalidates any composition
// still in flight. Idempotent and safe to call after the owning session has
// been closed; disposal during shutdown is an expected race, not a fault.
func (c *RouteComposer) Teardown() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.seq++
	c.handle = nil
	c.mu.Unlock()
}

// Handle returns the currently attached route, or nil when none is drawn.
func (c *RouteComposer) Handle() *RouteHandle {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}
