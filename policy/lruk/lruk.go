// Package lruk implements the LRU-K admission variant: a main LRU cache
// guarded by a bounded admission history that only promotes a key into
// the main cache once it has been sighted K times.
//
// Grounded on original_source/LruCache.h's LruKCache, with its two
// documented bugs fixed: the "already resident" branch here checks map
// presence instead of probing the value against "", and history
// bookkeeping does not leak the value type into generic code.
package lruk

import (
	"github.com/nvkdev/rcache/policy"
	"github.com/nvkdev/rcache/policy/lru"
)

// Engine wraps a main LRU cache of capacity C and an admission history —
// a second LRU cache mapping key -> sighting count, of capacity H.
type Engine[K comparable, V any] struct {
	main    *lru.Engine[K, V]
	history *lru.Engine[K, int]
	k       int
}

// New constructs an LRU-K engine. mainCap is the main cache's capacity,
// historyCap is the admission history's capacity, and k is the sighting
// threshold (k < 1 is treated as 1: promote on first sighting).
func New[K comparable, V any](mainCap, historyCap, k int) *Engine[K, V] {
	if k < 1 {
		k = 1
	}
	return &Engine[K, V]{
		main:    lru.New[K, V](mainCap),
		history: lru.New[K, int](historyCap),
		k:       k,
	}
}

// NewFactory adapts New into a policy.Factory. The factory's capacity
// argument sizes the main cache; historyCap and k come from the closure.
func NewFactory[K comparable, V any](historyCap, k int) func(mainCap int) policy.Engine[K, V] {
	return func(mainCap int) policy.Engine[K, V] { return New[K, V](mainCap, historyCap, k) }
}

// Get increments k's sighting count in history (inserting if absent) and
// returns whatever the main cache reports — which may be a miss while the
// key is still being admitted.
func (e *Engine[K, V]) Get(k K) (V, bool) {
	e.bumpSighting(k)
	return e.main.Get(k)
}

// GetInto is the GetInto variant of Get.
func (e *Engine[K, V]) GetInto(k K, out *V) bool {
	e.bumpSighting(k)
	return e.main.GetInto(k, out)
}

// Put overwrites the value if k is already resident in the main cache.
// Otherwise it increments k's sighting count; once that count reaches K,
// the key is removed from history and installed in the main cache. Below
// K, the main cache is left untouched.
func (e *Engine[K, V]) Put(k K, v V) {
	var probe V
	if e.main.GetInto(k, &probe) {
		e.main.Put(k, v)
		return
	}

	count, _ := e.history.Get(k)
	count++
	e.history.Put(k, count)

	if count >= e.k {
		e.history.Remove(k)
		e.main.Put(k, v)
	}
}

// Contains reports whether k is resident in the main cache, without
// touching its admission history.
func (e *Engine[K, V]) Contains(k K) bool { return e.main.Contains(k) }

// Len returns the number of entries resident in the main cache (the
// admission history is internal bookkeeping, not resident data).
func (e *Engine[K, V]) Len() int { return e.main.Len() }

// Remove deletes k from the main cache (and any pending history entry)
// if present.
func (e *Engine[K, V]) Remove(k K) bool {
	e.history.Remove(k)
	return e.main.Remove(k)
}

func (e *Engine[K, V]) bumpSighting(k K) {
	count, _ := e.history.Get(k)
	e.history.Put(k, count+1)
}

var (
	_ policy.Engine[int, int] = (*Engine[int, int])(nil)
	_ policy.Remover[int]     = (*Engine[int, int])(nil)
)
