package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"trip-map-service/internal/domain"
)

func TestResolveCenterFirstResultWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("q = %q, want Paris", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %q, want 1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// Nominatim serializes coordinates as strings.
		w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522"},{"lat":"33.66","lon":"-95.55"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "trip-map-service-test", nil)

	got, err := g.ResolveCenter(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Coordinate{Lat: 48.8566, Lng: 2.3522}
	if got != want {
		t.Fatalf("center = %+v, want %+v", got, want)
	}
}

func TestResolveCenterEmptyResultSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "trip-map-service-test", nil)

	if _, err := g.ResolveCenter(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestResolveCenterRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"lat":35.6764,"lon":139.65}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "trip-map-service-test", nil)

	got, err := g.ResolveCenter(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if got.Lat != 35.6764 || got.Lng != 139.65 {
		t.Fatalf("center = %+v", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls (one retry), got %d", calls.Load())
	}
}

func TestResolveCenterMemoSkipsSecondCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"lat":"41.3874","lon":"2.1686"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "trip-map-service-test", nil)

	for i := 0; i < 3; i++ {
		if _, err := g.ResolveCenter(context.Background(), "Barcelona"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("memo did not absorb repeat lookups: %d calls", calls.Load())
	}
}
