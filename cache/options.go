package cache

import (
	"context"

	"github.com/nvkdev/rcache/policy"
)

// Options configures the cache behavior. Capacity must be > 0 (New panics
// otherwise); for the other fields zero values are safe, and sane
// defaults are applied in New():
//   - nil Metrics  => NoopMetrics
//   - nil Policy   => LRU
//   - Shards <= 0  => auto (rounded up to the next power of two)
type Options[K comparable, V any] struct {
	// Capacity is the total entry count limit, split evenly across shards.
	Capacity int

	// Shards defines the number of shards. If 0, an automatic value is
	// chosen (≈ 2*GOMAXPROCS) and rounded to the next power of two.
	Shards int

	// Policy selects the replacement-policy engine each shard runs; nil
	// selects LRU. See policy/lru, policy/lruk, policy/lfu, policy/arc,
	// and policy/twoq for the available factories. Policies with required
	// parameters (LRU-K's history capacity and K, LFU's max_avg, ARC's
	// transform threshold) take them as arguments to their own NewFactory,
	// e.g. arc.NewFactory[K,V](transformThreshold).
	Policy policy.Factory[K, V]

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Metrics receives Hit/Miss/Evict/Size signals. Nil installs
	// NoopMetrics.
	Metrics Metrics
}
