package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-map-service/internal/domain"
)

const redisGeocodeKeyPrefix = "geocode:"

// RedisGeocodeCache is a Redis-backed cache mapping destination names to
// center coordinates. Entries expire so stale geocoding data cannot pin a
// destination forever.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// Fetch the cached coordinate for the given destination.
func (r *RedisGeocodeCache) Get(ctx context.Context, destination string) (domain.Coordinate, bool, error) {
	if r.Client == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: redis client is nil")
	}

	destination = strings.TrimSpace(destination)
	if destination == "" {
		return domain.Coordinate{}, false, errors.New("geocode cache: destination must be non-empty")
	}

	val, err := r.Client.Get(ctx, redisGeocodeKeyPrefix+destination).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	coord, err := decodeCoord(val)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache dest=%q: %w", destination, err)
	}

	return coord, true, nil
}

// Store a destination -> coordinate mapping in the cache.
func (r *RedisGeocodeCache) Put(ctx context.Context, destination string, coord domain.Coordinate) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	destination = strings.TrimSpace(destination)
	if destination == "" {
		return errors.New("insert geocode cache: empty destination key")
	}

	val := encodeCoord(coord)
	if err := r.Client.Set(ctx, redisGeocodeKeyPrefix+destination, val, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert geocode cache dest=%q: redis set: %w", destination, err)
	}

	return nil
}

// Values are stored as "lat,lng" with full float64 precision.
func encodeCoord(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func decodeCoord(s string) (domain.Coordinate, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("malformed cached value %q", s)
	}

	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("malformed cached lat %q: %w", lat, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("malformed cached lng %q: %w", lng, err)
	}

	return domain.Coordinate{Lat: latF, Lng: lngF}, nil
}
