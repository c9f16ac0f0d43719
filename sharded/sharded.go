// Package sharded fans a single logical cache out across N independent
// replacement-policy engines, routed by key hash, to cut lock contention
// under concurrent access. Each shard owns one policy.Engine and its own
// mutex; shards never share state, so operations on different shards
// never block each other.
//
// Grounded on cache/shard.go and cache/cache.go's shard-routing and
// per-shard-capacity-splitting design, adapted from a single hard-coded
// LRU shard type to any policy.Engine via policy.Factory, and from the
// teacher's hand-rolled FNV-1a to xxhash for the routing hash.
package sharded

import (
	"sync"
	"sync/atomic"

	"github.com/nvkdev/rcache/internal/util"
	"github.com/nvkdev/rcache/policy"
)

// EvictReason explains why an entry was removed from a shard's engine.
type EvictReason int

const (
	// EvictPolicy means a shard's own replacement policy chose a victim
	// to make room for a new key (the only eviction reason possible now
	// that TTL- and cost-based limits are out of scope).
	EvictPolicy EvictReason = iota
	// EvictCapacity is reserved for a future capacity-accounting axis
	// (e.g. cost-weighted limits) distinct from pure entry-count
	// replacement; nothing currently emits it.
	EvictCapacity
)

// Metrics receives shard-level observability signals. A NoopMetrics
// implementation is used when the caller supplies none.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics implements Metrics by discarding every signal.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

// shard pairs one policy engine with the mutex that serializes the
// multi-step bookkeeping (existence probe, Put, metrics accounting)
// around it. The engine's own internal lock still makes every engine
// method individually safe to call directly and without a wrapper; the
// shard's mutex exists because the wrapper's bookkeeping spans more than
// one engine call and must observe a consistent view across them.
type shard[K comparable, V any] struct {
	mu       sync.Mutex
	engine   policy.Engine[K, V]
	remover  policy.Remover[K]
	capacity int

	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// Wrapper routes keys to one of a fixed number of independent engine
// shards. All methods are safe for concurrent use.
type Wrapper[K comparable, V any] struct {
	shards  []*shard[K, V]
	hashFn  func(K) uint64
	metrics Metrics
	closed  atomic.Bool
}

// New builds a Wrapper with shardCount independent engines, each sized to
// its share of totalCapacity (split evenly, rounded up). shardCount <= 0
// selects util.ReasonableShardCount(); it is always rounded up to the
// next power of two so shard routing can use a bitmask. metrics may be
// nil, in which case a NoopMetrics is installed.
func New[K comparable, V any](totalCapacity, shardCount int, factory policy.Factory[K, V], metrics Metrics) *Wrapper[K, V] {
	if totalCapacity <= 0 {
		panic("sharded: totalCapacity must be > 0")
	}
	if shardCount <= 0 {
		shardCount = util.ReasonableShardCount()
	} else {
		shardCount = int(util.NextPow2(uint64(shardCount)))
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	perShardCap := (totalCapacity + shardCount - 1) / shardCount
	shards := make([]*shard[K, V], shardCount)
	for i := range shards {
		eng := factory(perShardCap)
		s := &shard[K, V]{engine: eng, capacity: perShardCap}
		if r, ok := eng.(policy.Remover[K]); ok {
			s.remover = r
		}
		shards[i] = s
	}

	return &Wrapper[K, V]{
		shards:  shards,
		hashFn:  util.Hash64[K],
		metrics: metrics,
	}
}

// Put inserts or updates k->v in its shard, promoting an existing key or
// admitting a new one (evicting per the shard's policy if the shard is
// already full).
func (w *Wrapper[K, V]) Put(k K, v V) {
	if w.closed.Load() {
		return
	}
	s := w.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.engine.Contains(k)
	lenBefore := s.engine.Len()
	s.engine.Put(k, v)

	if !existed && lenBefore >= s.capacity {
		s.evicts.Add(1)
		w.metrics.Evict(EvictPolicy)
	}
	w.metrics.Size(s.engine.Len())
}

// Get returns k's value and whether it was present, promoting the entry
// on a hit per the shard's policy.
func (w *Wrapper[K, V]) Get(k K) (V, bool) {
	if w.closed.Load() {
		var zero V
		return zero, false
	}
	s := w.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.engine.Get(k)
	if ok {
		s.hits.Add(1)
		w.metrics.Hit()
	} else {
		s.misses.Add(1)
		w.metrics.Miss()
	}
	return v, ok
}

// GetInto is the GetInto variant of Get.
func (w *Wrapper[K, V]) GetInto(k K, out *V) bool {
	if w.closed.Load() {
		return false
	}
	s := w.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.GetInto(k, out)
	if ok {
		s.hits.Add(1)
		w.metrics.Hit()
	} else {
		s.misses.Add(1)
		w.metrics.Miss()
	}
	return ok
}

// Add inserts k->v only if k is not already present. It reports false
// without modifying the cache if k already exists.
func (w *Wrapper[K, V]) Add(k K, v V) bool {
	if w.closed.Load() {
		return false
	}
	s := w.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Contains(k) {
		return false
	}
	lenBefore := s.engine.Len()
	s.engine.Put(k, v)
	if lenBefore >= s.capacity {
		s.evicts.Add(1)
		w.metrics.Evict(EvictPolicy)
	}
	w.metrics.Size(s.engine.Len())
	return true
}

// Remove deletes k if present and reports whether it was found. Every
// engine in this module implements policy.Remover, but a custom
// third-party engine plugged in through Factory might not; Remove
// reports false for such an engine rather than panicking.
func (w *Wrapper[K, V]) Remove(k K) bool {
	if w.closed.Load() {
		return false
	}
	s := w.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remover == nil {
		return false
	}
	ok := s.remover.Remove(k)
	if ok {
		w.metrics.Size(s.engine.Len())
	}
	return ok
}

// Len returns the total number of resident entries across all shards.
func (w *Wrapper[K, V]) Len() int {
	total := 0
	for _, s := range w.shards {
		s.mu.Lock()
		total += s.engine.Len()
		s.mu.Unlock()
	}
	return total
}

// Close marks the wrapper closed; future Put/Get/Add/Remove calls become
// no-ops (misses). Close itself never fails.
func (w *Wrapper[K, V]) Close() { w.closed.Store(true) }

// ShardStats reports the raw hit/miss/evict counters for shard i, mostly
// useful for diagnosing uneven shard load.
func (w *Wrapper[K, V]) ShardStats(i int) (hits, misses int64, evicts uint64) {
	s := w.shards[i]
	return s.hits.Load(), s.misses.Load(), s.evicts.Load()
}

// ShardCount returns the number of shards the wrapper was built with.
func (w *Wrapper[K, V]) ShardCount() int { return len(w.shards) }

func (w *Wrapper[K, V]) shardFor(k K) *shard[K, V] {
	h := w.hashFn(k)
	idx := util.ShardIndex(h, len(w.shards))
	return w.shards[idx]
}
