package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-map-service/internal/domain"
)

// SQLite backed cache mapping destination names to center coordinates.
// Destination keys are expected to be consistent (e.g., normalized)
// by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch the cached coordinate for the given destination.
func (s *SqliteGeocodeCache) Get(ctx context.Context, destination string) (domain.Coordinate, bool, error) {
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
	WHERE destination = ?;
	`

	var lat, lng float64
	err := s.DB.QueryRowContext(ctx, q, destination).Scan(&lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return domain.Coordinate{Lat: lat, Lng: lng}, true, nil
}

// Store a destination -> coordinate mapping in the cache.
func (s *SqliteGeocodeCache) Put(ctx context.Context, destination string, coord domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	destination = strings.TrimSpace(destination)
	if destination == "" {
		return errors.New("insert geocode cache: empty destination key")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (destination, lat, lng)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, destination, coord.Lat, coord.Lng); err != nil {
		return fmt.Errorf("insert geocode cache dest=%q: %w", destination, err)
	}

	return nil
}
