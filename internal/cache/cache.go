// Package cache keeps fetched planner API results keyed by resource, and
// drops them by key prefix after a successful write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry lives when no TTL is configured
const DefaultTTL = 5 * time.Minute

const keySeparator = ":"

// Key joins parts into a cache key, e.g. Key("simulation", "3") is "simulation:3"
func Key(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

// IDKey is Key(name, id)
func IDKey(name string, id int64) string {
	return Key(name, strconv.FormatInt(id, 10))
}

// Matches reports whether key falls under prefix. A prefix matches itself
// and every key that continues it with further parts.
func Matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+keySeparator)
}

// Store holds encoded entries
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Cache coordinates fetches over a Store.
// A load in flight holds a generation for its key. Invalidate revokes it, and
// a load only writes its result back when its generation is still the key's
// current one, so a response that raced with a write can never repopulate
// the cache. Generations are handed out from one counter and forgotten once
// their load settles, so the table only holds keys with loads in flight.
type Cache struct {
	store Store
	ttl   time.Duration

	mu          sync.Mutex
	epoch       uint64
	generations map[string]uint64

	group singleflight.Group
}

// New creates a Cache over store
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:       store,
		ttl:         ttl,
		generations: make(map[string]uint64),
	}
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.generations[key]
	if !ok {
		c.epoch++
		gen = c.epoch
		c.generations[key] = gen
	}
	return gen
}

// settle ends the load that ran under gen. A nil raw means the load failed
// and there is nothing to write.
func (c *Cache) settle(ctx context.Context, key string, gen uint64, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		if raw != nil {
			log.Debug().Str("key", key).Msg("Discarding stale cache fill")
		}
		return
	}
	delete(c.generations, key)
	if raw == nil {
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
	}
}

// pending is the number of keys with a load in flight
func (c *Cache) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.generations)
}

// Invalidate drops every entry under each prefix and fences off fetches
// already in flight for them
func (c *Cache) Invalidate(ctx context.Context, prefixes ...string) {
	c.mu.Lock()
	for key := range c.generations {
		for _, prefix := range prefixes {
			if Matches(key, prefix) {
				delete(c.generations, key)
				break
			}
		}
	}
	c.mu.Unlock()

	for _, prefix := range prefixes {
		if err := c.store.DeletePrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to invalidate cache entries")
		}
	}
}

// Fetch returns the cached value for key, or calls load and caches its result.
// Concurrent fetches of the same key and generation share one load.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var value T

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read cache entry")
	}
	if ok {
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		log.Warn().Str("key", key).Msg("Ignoring undecodable cache entry")
	}

	gen := c.generation(key)
	// The shared load outlives any single caller; the API client timeout
	// bounds it. Each caller only waits as long as its own context allows.
	detached := context.WithoutCancel(ctx)
	results := c.group.DoChan(fmt.Sprintf("%s@%d", key, gen), func() (interface{}, error) {
		loaded, err := load(detached)
		if err != nil {
			c.settle(detached, key, gen, nil)
			return nil, err
		}
		encoded, err := json.Marshal(loaded)
		if err != nil {
			c.settle(detached, key, gen, nil)
			return nil, fmt.Errorf("encode cache entry %s: %w", key, err)
		}
		c.settle(detached, key, gen, encoded)
		return encoded, nil
	})

	var shared interface{}
	select {
	case <-ctx.Done():
		return value, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return value, res.Err
		}
		shared = res.Val
	}

	// each caller decodes its own copy so shared slices are never aliased
	if err := json.Unmarshal(shared.([]byte), &value); err != nil {
		return value, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return value, nil
}
