package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Aside implements the read side of cache-aside (look up, load on miss,
// populate) and the write side (delete affected keys). Misses are never
// cached as "absent", and concurrent misses on one key each load and store.
type Aside struct {
	cache   Cache
	ttl     time.Duration
	metrics *Metrics
	log     *logrus.Logger
}

func NewAside(c Cache, ttl time.Duration, metrics *Metrics, logger *logrus.Logger) *Aside {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if metrics == nil {
		metrics = NewMetrics("", nil)
	}
	return &Aside{
		cache:   c,
		ttl:     ttl,
		metrics: metrics,
		log:     logger,
	}
}

// Fetch returns the cached value under key or, on a miss, the result of load,
// which is then stored for the configured TTL. A load error is returned as is
// and nothing is stored.
func Fetch[T any](ctx context.Context, a *Aside, key Key, load func(context.Context) (T, error)) (T, error) {
	var zero T
	name := key.String()

	raw, found, err := a.cache.Get(ctx, name)
	if err != nil {
		a.log.Errorf("Cache: Lookup of %s failed: %v", name, err)
		return zero, fmt.Errorf("cache lookup %s: %w", name, err)
	}
	if found {
		var value T
		decodeErr := json.Unmarshal(raw, &value)
		if decodeErr == nil {
			a.metrics.Hits.WithLabelValues(key.Family).Inc()
			a.log.Debugf("Cache: Hit for %s", name)
			return value, nil
		}
		a.log.Warnf("Cache: Discarding undecodable entry %s: %v", name, decodeErr)
	}

	a.metrics.Misses.WithLabelValues(key.Family).Inc()
	a.log.Debugf("Cache: Miss for %s, loading from store", name)

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	raw, err = json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("cache encode %s: %w", name, err)
	}
	if err := a.cache.Set(ctx, name, raw, a.ttl); err != nil {
		a.log.Errorf("Cache: Store of %s failed: %v", name, err)
		return zero, fmt.Errorf("cache store %s: %w", name, err)
	}
	return value, nil
}

// Invalidate deletes every given key. Duplicates are collapsed.
func (a *Aside) Invalidate(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keys))
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		name := k.String()
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		a.metrics.Invalidations.WithLabelValues(k.Family).Inc()
	}
	if err := a.cache.Delete(ctx, names...); err != nil {
		a.log.Errorf("Cache: Invalidation of %v failed: %v", names, err)
		return fmt.Errorf("cache invalidate: %w", err)
	}
	a.log.Debugf("Cache: Invalidated %v", names)
	return nil
}
