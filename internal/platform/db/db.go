package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Open a Postgres connection pool for deployments using the shared geocode
// cache. The driver is registered by the caller (pgx stdlib import).
//
// The pool is sized for the cache workload: short point reads and single-row
// upserts, never long transactions.
func Open(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("openDB: postgres connection string is empty (set DATABASE_URL)")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
