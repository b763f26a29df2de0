package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

var _ Cache = (*MemoryCache)(nil)

// MemoryCache keeps entries in process memory. It is only coherent within a
// single instance, so it suits local runs and tests; deployments with several
// replicas should use the Redis backend.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(DefaultTTL, cleanupInterval),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := c.store.Get(key)
	if !found {
		return nil, false, nil
	}
	return value.([]byte), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.store.Set(key, stored, ttl)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Delete(key)
	}
	return nil
}

// Len reports the number of entries, expired ones included until cleanup.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
