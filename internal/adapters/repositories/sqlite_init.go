package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		destination TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		days TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		destination TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lng REAL NOT NULL
	);
	`

	statements := []string{
		createItinerariesQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// itinerarySeed is one entry of the seed file, in the upstream generator's
// JSON shape.
type itinerarySeed struct {
	Destination string   `json:"destination"`
	Summary     string   `json:"summary"`
	Days        []dayDoc `json:"days"`
}

// Populate the database with itinerary data from a JSON file. Seeding is
// skipped when the table already has rows, so restarts do not duplicate data.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed itineraries: read %q: %w", jsonPath, err)
	}

	var data []itinerarySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed itineraries: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.Destination) == "" {
			return fmt.Errorf("seed itineraries: item at index %d: destination cannot be empty", i+1)
		}
		if len(item.Days) == 0 {
			return fmt.Errorf("seed itineraries: item at index %d (%q): days cannot be empty", i+1, item.Destination)
		}
	}

	var existing int
	if err := db.QueryRow(`SELECT COUNT(*) FROM itineraries;`).Scan(&existing); err != nil {
		return fmt.Errorf("seed itineraries: count rows: %w", err)
	}
	if existing > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed itineraries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO itineraries (destination, summary, days)
	VALUES (?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed itineraries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range data {
		blob, err := json.Marshal(item.Days)
		if err != nil {
			return fmt.Errorf("seed itineraries: encode days for %q: %w", item.Destination, err)
		}

		if _, err := stmt.Exec(item.Destination, item.Summary, string(blob)); err != nil {
			return fmt.Errorf("seed itineraries: insert %q: %w", item.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed itineraries: commit tx: %w", err)
	}

	return nil
}

// InitGeocodeCacheSchema creates the Postgres geocode cache table for
// deployments using the shared SQL cache.
func InitGeocodeCacheSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init geocode cache schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		destination TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init geocode cache schema: %w", err)
	}

	return nil
}
