package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/platform/obs"
	"trip-map-service/internal/ports"
)

// NominatimGeocoder implements the Geocoder port against a Nominatim-style
// forward geocoding endpoint.
//
// It coordinates:
//   - Destination name normalization
//   - An in-process TTL memo for hot destinations
//   - An optional persistent cache behind the GeocodeCache port
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	memo      *gocache.Cache
	cache     ports.GeocodeCache
}

// searchResult is one forward-geocoding candidate. Nominatim serializes
// lat/lon as strings; json.Number also tolerates providers that send floats.
type searchResult struct {
	Lat json.Number `json:"lat"`
	Lon json.Number `json:"lon"`
}

func NewNominatimGeocoder(baseURL, userAgent string, cache ports.GeocodeCache) *NominatimGeocoder {
	return &NominatimGeocoder{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		memo:      gocache.New(30*time.Minute, 10*time.Minute),
		cache:     cache,
	}
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *NominatimGeocoder) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ResolveCenter resolves a destination name to the first candidate's
// coordinate. Any failure is returned to the caller, which keeps whatever
// center it already holds; the geocoder never substitutes a default itself.
func (g *NominatimGeocoder) ResolveCenter(
	ctx context.Context,
	destination string,
) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.ResolveCenter")(&err)

	norm := g.normalize(destination)
	if norm == "" {
		return domain.Coordinate{}, fmt.Errorf("resolve center: destination must be non-empty")
	}

	if hit, ok := g.memo.Get(norm); ok {
		return hit.(domain.Coordinate), nil
	}

	if g.cache != nil {
		coord, ok, err := g.cache.Get(ctx, norm)
		if err != nil {
			// Cache trouble must not block resolution; fall through to the API.
			log.Printf("geocode cache read failed: dest=%q err=%v", norm, err)
		} else if ok {
			g.memo.SetDefault(norm, coord)
			return coord, nil
		}
	}

	coord, err := g.search(ctx, norm)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("resolve center %q: %w", norm, err)
	}

	g.memo.SetDefault(norm, coord)
	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, coord); err != nil {
			log.Printf("geocode cache write failed: dest=%q err=%v", norm, err)
		}
	}

	return coord, nil
}

// search performs the forward lookup (/search, first result wins).
func (g *NominatimGeocoder) search(ctx context.Context, destination string) (domain.Coordinate, error) {
	endpoint := g.baseURL + "/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", destination)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode search response: %w", err)
	}

	if len(decoded) == 0 {
		return domain.Coordinate{}, fmt.Errorf("no geocode results for %q", destination)
	}

	lat, err := decoded[0].Lat.Float64()
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("invalid lat for %q: %w", destination, err)
	}
	lng, err := decoded[0].Lon.Float64()
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("invalid lon for %q: %w", destination, err)
	}

	coord := domain.Coordinate{Lat: lat, Lng: lng}
	if !coord.Valid() {
		return domain.Coordinate{}, fmt.Errorf("out-of-range coordinate for %q: %+v", destination, coord)
	}

	return coord, nil
}
