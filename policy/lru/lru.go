// Package lru implements the Least-Recently-Used replacement engine: a
// key->entry map plus an intrusive MRU/LRU recency list. Eviction is
// strictly by recency position — the entry at the LRU end is evicted
// regardless of access count.
package lru

import (
	"sync"

	"github.com/nvkdev/rcache/internal/list"
	"github.com/nvkdev/rcache/policy"
)

// node is a resident entry: key, value, an access counter bumped on every
// touch, and the recency-list link.
type node[K comparable, V any] struct {
	key K
	val V

	accessCount uint64
	link        list.Link[*node[K, V]]
}

func (n *node[K, V]) Link() *list.Link[*node[K, V]] { return &n.link }

// Engine is a self-contained LRU cache: every method is a critical
// section guarded by mu. capacity == 0 makes Put a no-op and Get always
// miss.
type Engine[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	m        map[K]*node[K, V]
	recency  list.List[*node[K, V]]
}

// New constructs an LRU engine with room for capacity entries.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Engine[K, V]{
		capacity: capacity,
		m:        make(map[K]*node[K, V]),
	}
}

// NewFactory adapts New into a policy.Factory for use by the sharded
// wrapper.
func NewFactory[K comparable, V any]() policy.Factory[K, V] {
	return func(capacity int) policy.Engine[K, V] { return New[K, V](capacity) }
}

// Put overwrites k's value and moves it to MRU if already present.
// Otherwise, if the map is at capacity, it evicts the LRU-end entry
// before inserting the new one at MRU.
func (e *Engine[K, V]) Put(k K, v V) {
	if e.capacity == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if n, ok := e.m[k]; ok {
		n.val = v
		n.accessCount++
		e.recency.MoveToFront(n)
		return
	}

	if len(e.m) >= e.capacity {
		e.evictLocked()
	}
	n := &node[K, V]{key: k, val: v, accessCount: 1}
	e.m[k] = n
	e.recency.PushFront(n)
}

// Get promotes k to MRU and bumps its access counter on a hit.
func (e *Engine[K, V]) Get(k K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	n.accessCount++
	e.recency.MoveToFront(n)
	return n.val, true
}

// GetInto is the Get variant that writes into an existing V rather than
// returning a zero value on miss.
func (e *Engine[K, V]) GetInto(k K, out *V) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.m[k]
	if !ok {
		return false
	}
	n.accessCount++
	e.recency.MoveToFront(n)
	*out = n.val
	return true
}

// Contains reports whether k is resident without promoting it.
func (e *Engine[K, V]) Contains(k K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.m[k]
	return ok
}

// Remove deletes k if present and reports whether it was found.
func (e *Engine[K, V]) Remove(k K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.m[k]
	if !ok {
		return false
	}
	e.recency.Unlink(n)
	delete(e.m, k)
	return true
}

// Len returns the number of resident entries.
func (e *Engine[K, V]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.m)
}

// evictLocked evicts the LRU-end entry. Callers must hold mu.
func (e *Engine[K, V]) evictLocked() {
	victim := e.recency.PopBack()
	if victim == nil {
		return
	}
	delete(e.m, victim.key)
}

var (
	_ policy.Engine[int, int] = (*Engine[int, int])(nil)
	_ policy.Remover[int]     = (*Engine[int, int])(nil)
)
