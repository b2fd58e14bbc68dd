package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer so the implementation can
// be swapped (Redis, in-memory) without touching call sites.
type Cache interface {
	// Get fetches data from cache and unmarshals it into dest.
	// Returns (found bool, error):
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores data in cache with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
