package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-map-service/internal/domain"
	"trip-map-service/internal/platform/obs"
)

// SQLGeocodeCache is a Postgres-backed cache mapping destination names to
// center coordinates, for deployments where replicas share one database.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch the cached coordinate for the given destination.
func (s *SQLGeocodeCache) Get(
	ctx context.Context,
	destination string,
) (_ domain.Coordinate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: db is nil")
	}

	destination = strings.TrimSpace(destination)
	if destination == "" {
		return domain.Coordinate{}, false, errors.New("geocode cache: destination must be non-empty")
	}

	q := `
	SELECT lat, lng
	FROM geocode_cache
	WHERE destination = $1;
	`

	var lat, lng float64
	scanErr := s.DB.QueryRowContext(ctx, q, destination).Scan(&lat, &lng)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if scanErr != nil {
		err = fmt.Errorf("get geocode cache: query geocode_cache table: %w", scanErr)
		return domain.Coordinate{}, false, err
	}

	return domain.Coordinate{Lat: lat, Lng: lng}, true, nil
}

// Store a destination -> coordinate mapping in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, destination string, coord domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	destination = strings.TrimSpace(destination)
	if destination == "" {
		return errors.New("insert geocode cache: empty destination key")
	}

	q := `
	INSERT INTO geocode_cache (destination, lat, lng)
	VALUES ($1, $2, $3)
	ON CONFLICT (destination) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`

	if _, err := s.DB.ExecContext(ctx, q, destination, coord.Lat, coord.Lng); err != nil {
		return fmt.Errorf("insert geocode cache dest=%q: %w", destination, err)
	}

	return nil
}
