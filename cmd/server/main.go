package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-map-service/internal/adapters/cache"
	"trip-map-service/internal/adapters/geocode"
	"trip-map-service/internal/adapters/repositories"
	"trip-map-service/internal/adapters/routing"
	"trip-map-service/internal/api"
	"trip-map-service/internal/config"
	"trip-map-service/internal/mapview"
	"trip-map-service/internal/platform/db"
	"trip-map-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Nominatim, OSRM) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/itineraries.json")
	port := config.Get("PORT", "8080")

	geocodeURL := config.Get("GEOCODE_URL", "https://nominatim.openstreetmap.org")
	geocodeAgent := config.Get("GEOCODE_USER_AGENT", "trip-map-service/1.0")
	routingURL := config.Get("ROUTING_URL", "https://router.project-osrm.org")

	sqliteDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed demo itineraries on startup for local runs.
	if err := initAndSeed(sqliteDB, seedPath); err != nil {
		log.Fatal(err)
	}

	geocodeCache, err := buildGeocodeCache(sqliteDB)
	if err != nil {
		log.Fatal(err)
	}

	// Geocoder layers an in-process memo and the persistent cache in front
	// of the external lookup, so repeat destinations never leave the host.
	geocoder := geocode.NewNominatimGeocoder(geocodeURL, geocodeAgent, geocodeCache)
	routeProvider := routing.NewOSRMRouteProvider(routingURL)

	repo := repositories.NewSqliteItineraryRepository(sqliteDB)
	sessions := mapview.NewManager(geocoder, routeProvider)
	router := api.NewRouter(repo, sessions)

	// Write timeout allows for cold-cache geocode + route composition.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildGeocodeCache selects the persistent geocode cache backend:
// sqlite (default, single host), postgres or redis (shared across replicas).
func buildGeocodeCache(sqliteDB *sql.DB) (ports.GeocodeCache, error) {
	switch backend := config.Get("GEOCODE_CACHE", "sqlite"); backend {
	case "sqlite":
		return cache.NewSqliteGeocodeCache(sqliteDB), nil
	case "postgres":
		pgDB, err := db.Open(config.Get("DATABASE_URL", ""))
		if err != nil {
			return nil, fmt.Errorf("geocode cache backend postgres: %w", err)
		}
		if err := repositories.InitGeocodeCacheSchema(pgDB); err != nil {
			return nil, fmt.Errorf("geocode cache backend postgres: %w", err)
		}
		return cache.NewSQLGeocodeCache(pgDB), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: config.Get("REDIS_ADDR", "localhost:6379"),
		})
		return cache.NewRedisGeocodeCache(client, 7*24*time.Hour), nil
	default:
		return nil, fmt.Errorf("unknown GEOCODE_CACHE backend %q", backend)
	}
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
