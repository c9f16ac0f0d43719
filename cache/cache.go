package cache

import (
	"context"
	"errors"

	"github.com/nvkdev/rcache/internal/singleflight"
	"github.com/nvkdev/rcache/policy/lru"
	"github.com/nvkdev/rcache/sharded"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// cache is a sharded in-memory KV store with a pluggable eviction policy.
// All methods are safe for concurrent use by multiple goroutines.
type cache[K comparable, V any] struct {
	w   *sharded.Wrapper[K, V]
	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	if opt.Policy == nil {
		opt.Policy = lru.NewFactory[K, V]()
	}

	w := sharded.New[K, V](opt.Capacity, opt.Shards, opt.Policy, opt.Metrics)

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return &cache[K, V]{w: w, opt: opt}
}

// ---- Cache[K,V] implementation ----

// Add inserts k->v only if absent. Returns false if the key already
// exists (no update is performed).
func (c *cache[K, V]) Add(k K, v V) bool { return c.w.Add(k, v) }

// Set inserts or updates k->v, and promotes the entry according to the
// active policy.
func (c *cache[K, V]) Set(k K, v V) { c.w.Put(k, v) }

// Get returns the value for k and a presence flag. On hit, the entry is
// promoted according to the active policy.
func (c *cache[K, V]) Get(k K) (V, bool) { return c.w.Get(k) }

// Remove deletes k if present and returns true on success.
func (c *cache[K, V]) Remove(k K) bool { return c.w.Remove(k) }

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int { return c.w.Len() }

// Close marks the cache as closed. Future operations are no-ops.
func (c *cache[K, V]) Close() error {
	c.w.Close()
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight). If no
// Loader is configured, returns ErrNoLoader.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	// singleflight: exactly one real load for the key
	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Set(k, v)
		}
		return v, err
	})
}
