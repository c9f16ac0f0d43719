package cache

import "github.com/nvkdev/rcache/sharded"

// EvictReason explains why an entry was removed. Re-exported from
// package sharded so callers configuring a Cache never need to import it
// directly.
type EvictReason = sharded.EvictReason

const (
	EvictPolicy   = sharded.EvictPolicy
	EvictCapacity = sharded.EvictCapacity
)

// Metrics exposes cache-level observability hooks. A NoopMetrics
// implementation is provided and used by default.
type Metrics = sharded.Metrics

// NoopMetrics is a Metrics implementation that does nothing.
type NoopMetrics = sharded.NoopMetrics
