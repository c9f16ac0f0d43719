// Package cache provides a fast, generic, sharded in-memory cache with
// pluggable eviction policies (LRU by default), optional singleflight
// loading, and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into shards (package sharded), each
//     running an independent replacement-policy engine. The default shard
//     count is chosen by a heuristic (util.ReasonableShardCount) and is a
//     power of two. Picking shards reduces contention while keeping
//     memory overhead small.
//
//   - Policies: eviction policy is pluggable via the policy package's
//     Factory type. LRU is the default; LRU-K (admission gated by a
//     sighting history), LFU with frequency decay, ARC (an LRU half and
//     an LFU half whose capacities adapt on ghost hits, with entries
//     graduating from the LRU half to the LFU half past a transform
//     threshold), and 2Q are provided. Each engine is a fully
//     self-contained unit — map, list(s), and mutex — independently safe
//     to use directly without a Cache wrapping it.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight.  If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals. By
//     default NoopMetrics is used; plug metrics/prom.Adapter to export
//     to Prometheus.
//
// Basic usage
//
//	// Create an LRU cache with capacity for 10k entries.
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy (ARC, with a transform threshold of 2 hits)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   arc.NewFactory[string, string](2),
//	})
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "cachex", "demo", nil) // implements Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation cost
// is O(1) expected time: one map access and a constant amount of pointer
// fixes. Eviction work is also O(1) per removed item.
//
// See package policy for the Engine/Factory contract used to implement
// custom replacement strategies, and package sharded for the routing
// layer that fans a cache out across independent engine instances.
package cache
