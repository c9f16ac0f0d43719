// Package twoq implements the 2Q replacement engine: a small FIFO queue
// of first-time entries (A1in) that gives long-resident, repeatedly
// accessed keys a path into a larger LRU queue (Am), plus a ghost queue
// of recently evicted A1in keys (A1out) that grants a returning key a
// second chance straight into Am instead of cycling through A1in again.
//
// This resists scan pollution: a one-off sweep over many keys fills and
// drains A1in without ever reaching Am, leaving Am's working set intact.
//
// Grounded on the teacher's hook-based policy/twoq/twoq.go, adapted from
// the Hooks/ShardPolicy indirection (designed for a single shared shard
// list) into a self-contained Engine[K,V] with its own three lists and
// its own mutex.
package twoq

import (
	"sync"

	"github.com/nvkdev/rcache/internal/list"
	"github.com/nvkdev/rcache/policy"
)

type inNode[K comparable, V any] struct {
	key  K
	val  V
	link list.Link[*inNode[K, V]]
}

func (n *inNode[K, V]) Link() *list.Link[*inNode[K, V]] { return &n.link }

type amNode[K comparable, V any] struct {
	key  K
	val  V
	link list.Link[*amNode[K, V]]
}

func (n *amNode[K, V]) Link() *list.Link[*amNode[K, V]] { return &n.link }

type ghostNode[K comparable] struct {
	key  K
	link list.Link[*ghostNode[K]]
}

func (n *ghostNode[K]) Link() *list.Link[*ghostNode[K]] { return &n.link }

// Engine is a self-contained 2Q cache. Every method is a critical
// section guarded by mu.
type Engine[K comparable, V any] struct {
	mu sync.Mutex

	capIn    int // A1in capacity
	capAm    int // Am capacity
	capGhost int // A1out (ghost) capacity

	inList list.List[*inNode[K, V]]
	inIdx  map[K]*inNode[K, V]

	amList list.List[*amNode[K, V]]
	amIdx  map[K]*amNode[K, V]

	ghostList list.List[*ghostNode[K]]
	ghostIdx  map[K]*ghostNode[K]
}

// New constructs a 2Q engine sized for capacity resident entries total,
// splitting it 25% A1in / 75% Am (the usual 2Q recommendation), with a
// ghost queue sized to the full capacity. Every queue is floored at one
// entry (see NewWithSizes), so New(0) still admits entries: unlike the
// other engines, a zero capacity does not make Put a no-op.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	return NewWithSizes[K, V](capacity/4, capacity-capacity/4, capacity)
}

// NewWithSizes constructs a 2Q engine with explicit A1in, Am, and A1out
// (ghost) capacities, for callers that want to deviate from the default
// 25/75 split.
func NewWithSizes[K comparable, V any](capIn, capAm, capGhost int) *Engine[K, V] {
	if capIn < 1 {
		capIn = 1
	}
	if capAm < 1 {
		capAm = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return &Engine[K, V]{
		capIn:    capIn,
		capAm:    capAm,
		capGhost: capGhost,
		inIdx:    make(map[K]*inNode[K, V]),
		amIdx:    make(map[K]*amNode[K, V]),
		ghostIdx: make(map[K]*ghostNode[K]),
	}
}

// NewFactory adapts New into a policy.Factory for use by the sharded
// wrapper.
func NewFactory[K comparable, V any]() policy.Factory[K, V] {
	return func(capacity int) policy.Engine[K, V] { return New[K, V](capacity) }
}

// Put overwrites k's value in place if it is resident in Am or A1in.
// A key found in the ghost queue is admitted directly into Am (its
// second chance). An entirely new key is admitted into A1in.
func (e *Engine[K, V]) Put(k K, v V) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n, ok := e.amIdx[k]; ok {
		n.val = v
		e.amList.MoveToFront(n)
		return
	}
	if n, ok := e.inIdx[k]; ok {
		n.val = v
		return
	}
	if g, ok := e.ghostIdx[k]; ok {
		e.ghostList.Unlink(g)
		delete(e.ghostIdx, k)
		e.admitToAmLocked(k, v)
		return
	}
	e.admitToInLocked(k, v)
}

// Get promotes a hit in A1in into Am (2Q's defining move: a key survives
// its first eviction pressure only once it is accessed again) and
// refreshes recency for an existing Am hit.
func (e *Engine[K, V]) Get(k K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n, ok := e.amIdx[k]; ok {
		e.amList.MoveToFront(n)
		return n.val, true
	}
	if n, ok := e.inIdx[k]; ok {
		v := n.val
		e.inList.Unlink(n)
		delete(e.inIdx, k)
		e.admitToAmLocked(k, v)
		return v, true
	}
	var zero V
	return zero, false
}

// GetInto is the GetInto variant of Get.
func (e *Engine[K, V]) GetInto(k K, out *V) bool {
	v, ok := e.Get(k)
	if !ok {
		return false
	}
	*out = v
	return true
}

// Contains reports whether k is resident in Am or A1in, without
// promoting it (a ghost-only membership does not count as resident).
func (e *Engine[K, V]) Contains(k K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.amIdx[k]; ok {
		return true
	}
	_, ok := e.inIdx[k]
	return ok
}

// Remove deletes k from whichever resident queue holds it. A key removed
// from A1in is ghosted, same as when capacity pressure evicts it;
// removing from Am never touches the ghost queue. A key present only in
// the ghost queue is dropped from it, and Remove reports false.
func (e *Engine[K, V]) Remove(k K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n, ok := e.amIdx[k]; ok {
		e.amList.Unlink(n)
		delete(e.amIdx, k)
		return true
	}
	if n, ok := e.inIdx[k]; ok {
		e.inList.Unlink(n)
		delete(e.inIdx, k)
		e.ghostLocked(k)
		return true
	}
	if g, ok := e.ghostIdx[k]; ok {
		e.ghostList.Unlink(g)
		delete(e.ghostIdx, k)
	}
	return false
}

// Len returns the number of resident entries (A1in + Am; ghost entries
// carry no value and are not counted).
func (e *Engine[K, V]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inIdx) + len(e.amIdx)
}

func (e *Engine[K, V]) admitToInLocked(k K, v V) {
	if len(e.inIdx) >= e.capIn {
		e.evictInLocked()
	}
	n := &inNode[K, V]{key: k, val: v}
	e.inIdx[k] = n
	e.inList.PushFront(n)
}

func (e *Engine[K, V]) admitToAmLocked(k K, v V) {
	if len(e.amIdx) >= e.capAm {
		e.evictAmLocked()
	}
	n := &amNode[K, V]{key: k, val: v}
	e.amIdx[k] = n
	e.amList.PushFront(n)
}

// evictInLocked evicts A1in's oldest entry and ghosts its key.
func (e *Engine[K, V]) evictInLocked() {
	victim := e.inList.PopBack()
	if victim == nil {
		return
	}
	delete(e.inIdx, victim.key)
	e.ghostLocked(victim.key)
}

// evictAmLocked evicts Am's LRU-end entry. Am evictions never populate
// the ghost queue: only first-time (A1in) evictions get a second chance.
func (e *Engine[K, V]) evictAmLocked() {
	victim := e.amList.PopBack()
	if victim == nil {
		return
	}
	delete(e.amIdx, victim.key)
}

// ghostLocked records k as recently evicted from A1in, trimming the
// ghost queue's LRU end if it overflows. Callers must hold mu.
func (e *Engine[K, V]) ghostLocked(k K) {
	if old, ok := e.ghostIdx[k]; ok {
		e.ghostList.Unlink(old)
	}
	g := &ghostNode[K]{key: k}
	e.ghostIdx[k] = g
	e.ghostList.PushFront(g)

	for e.ghostList.Len() > e.capGhost {
		tail := e.ghostList.PopBack()
		if tail == nil {
			break
		}
		delete(e.ghostIdx, tail.key)
	}
}

var (
	_ policy.Engine[int, int] = (*Engine[int, int])(nil)
	_ policy.Remover[int]     = (*Engine[int, int])(nil)
)
