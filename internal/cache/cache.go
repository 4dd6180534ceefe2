// package cache caches upstream API responses under canonical
// per-operation keys with per-class TTLs.
//
// Entries live in the cache bucket of a [store.KV], so the cache
// survives restarts when backed by SQLite. Storage failures degrade to
// cache misses; the cache never turns a working upstream call into an
// error.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// entry is the stored envelope around a cached payload.
type entry struct {
	Payload   json.RawMessage `json:"payload"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Stats reports cache occupancy and hit counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a read-through response cache. Safe for concurrent use;
// concurrent fetches for the same key share one upstream call.
type Cache struct {
	kv     store.KV
	clock  clockwork.Clock
	logger *log.Logger

	flight singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache over the store's cache bucket.
func New(kv store.KV, clock clockwork.Clock, logger *log.Logger) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Cache{kv: kv, clock: clock, logger: logger}
}

// Key builds the canonical cache key for an operation and its
// parameters. Parameter order never matters: the params map is encoded
// with sorted keys, so semantically identical requests collide.
func Key(op string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return op, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize params for %s: %w", op, err)
	}
	return op + ":" + string(data), nil
}

// GetOrFetch returns the cached payload for op+params when present and
// unexpired, and otherwise runs fetch, stores the result for ttl, and
// returns it. Fetch errors are returned as-is and never cached.
func (c *Cache) GetOrFetch(ctx context.Context, op string, params map[string]any, ttl time.Duration, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if ttl <= 0 {
		return fetch(ctx)
	}

	key, err := Key(op, params)
	if err != nil {
		return nil, err
	}

	if payload, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return payload, nil
	}

	result, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent flight may have populated the key while this
		// caller queued behind the store lookup.
		if payload, ok := c.lookup(key); ok {
			return payload, nil
		}

		c.misses.Add(1)
		payload, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.put(key, payload, ttl)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// Invalidate removes the entry for one exact op+params key.
func (c *Cache) Invalidate(op string, params map[string]any) error {
	key, err := Key(op, params)
	if err != nil {
		return err
	}
	return c.kv.Delete(store.BucketCache, key)
}

// InvalidateOp removes every entry for an operation regardless of
// parameters.
func (c *Cache) InvalidateOp(op string) error {
	if err := c.kv.Delete(store.BucketCache, op); err != nil {
		return err
	}
	return c.kv.DeletePrefix(store.BucketCache, op+":")
}

// Clear drops every cached entry.
func (c *Cache) Clear() error {
	return c.kv.Clear(store.BucketCache)
}

// Stats returns entry count and hit/miss counters. The entry count
// includes expired-but-unswept rows.
func (c *Cache) Stats() (Stats, error) {
	keys, err := c.kv.Keys(store.BucketCache, "")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return Stats{
		Entries: len(keys),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// lookup reads a key from the store, dropping expired entries lazily.
// Storage and decode failures degrade to a miss.
func (c *Cache) lookup(key string) ([]byte, bool) {
	data, ok, err := c.kv.Get(store.BucketCache, key)
	if err != nil {
		c.logger.Debug("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Debug("cache entry corrupt, treating as miss", "key", key, "error", err)
		return nil, false
	}

	if !c.clock.Now().Before(e.ExpiresAt) {
		if err := c.kv.Delete(store.BucketCache, key); err != nil {
			c.logger.Debug("failed to drop expired cache entry", "key", key, "error", err)
		}
		return nil, false
	}

	return e.Payload, true
}

// put stores a payload. Write failures are logged, not returned; the
// caller already has the fetched value.
func (c *Cache) put(key string, payload []byte, ttl time.Duration) {
	data, err := json.Marshal(entry{
		Payload:   payload,
		ExpiresAt: c.clock.Now().Add(ttl),
	})
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.kv.Put(store.BucketCache, key, data); err != nil {
		c.logger.Warn("failed to store cache entry", "key", key, "error", err)
	}
}

// Fetch is the typed read-through helper: cached payloads and fetched
// values round-trip through JSON so callers work with domain types.
func Fetch[T any](ctx context.Context, c *Cache, op string, params map[string]any, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	data, err := c.GetOrFetch(ctx, op, params, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("failed to decode cached %s response: %w", op, err)
	}
	return out, nil
}
