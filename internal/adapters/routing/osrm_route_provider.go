package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/platform/obs"
)

// OSRMRouteProvider implements the RouteProvider port against an OSRM-style
// routing endpoint.
//
// The request is pinned to exactly one drawable path: alternatives are
// disabled, step instructions are skipped, and only the overview geometry is
// returned. Waypoint editing and marker rendering are not this provider's
// concern.
type OSRMRouteProvider struct {
	session *http.Client
	baseURL string
	profile string
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func NewOSRMRouteProvider(baseURL string) *OSRMRouteProvider {
	return &OSRMRouteProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

// Route computes one connecting path through the waypoints in travel order.
func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	waypoints []domain.Coordinate,
) (_ domain.RoutePath, err error) {
	defer obs.Time(ctx, "routing.Route")(&err)

	if len(waypoints) < 2 {
		return domain.RoutePath{}, errors.New("route: at least 2 waypoints required")
	}

	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords,
			strconv.FormatFloat(w.Lng, 'f', -1, 64)+","+strconv.FormatFloat(w.Lat, 'f', -1, 64))
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(coords, ";"))

	resp, err := o.getWithRetry(ctx, endpoint)
	if err != nil {
		return domain.RoutePath{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.RoutePath{}, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" {
		return domain.RoutePath{}, fmt.Errorf("routing service returned code %q", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return domain.RoutePath{}, errors.New("routing service returned no routes")
	}

	// Alternatives are disabled, so the first route is the only route.
	r := decoded.Routes[0]

	geometry := make([]domain.Coordinate, 0, len(r.Geometry.Coordinates))
	for i, pair := range r.Geometry.Coordinates {
		if len(pair) != 2 {
			return domain.RoutePath{}, fmt.Errorf("invalid geometry pair at index %d", i)
		}
		// GeoJSON order is [lon, lat].
		geometry = append(geometry, domain.Coordinate{Lat: pair[1], Lng: pair[0]})
	}

	return domain.RoutePath{
		Geometry:        geometry,
		DistanceMeters:  int(math.Round(r.Distance)),
		DurationSeconds: int(math.Round(r.Duration)),
	}, nil
}

// getWithRetry issues the GET, retrying 429/5xx and network failures with
// exponential backoff while respecting context cancellation.
func (o *OSRMRouteProvider) getWithRetry(ctx context.Context, endpoint string) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 250 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		q := req.URL.Query()
		q.Set("alternatives", "false")
		q.Set("steps", "false")
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Accept", "application/json")

		resp, err := o.session.Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		retryable := err != nil
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			switch resp.StatusCode {
			case 429, 500, 502, 503, 504:
				retryable = true
			}
		}
		lastErr = err

		if !retryable || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
