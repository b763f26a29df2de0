// Package cache holds the key-value cache port used by the catalog services,
// its Redis and in-process backends, and the cache-aside helpers built on it.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry. A missing or
// expired key is reported as found == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const DefaultTTL = 5 * time.Minute
