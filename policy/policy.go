// Package policy defines the contract every replacement-policy engine
// satisfies, so that the sharded wrapper (and the front-door cache) can
// treat LRU, LRU-K, LFU, ARC, and 2Q interchangeably.
package policy

// Engine is the capability set every replacement-policy engine implements.
// Implementations are NOT required to be safe for concurrent use by
// multiple goroutines on their own; the sharded wrapper calls every engine
// method under its own per-shard mutex. The engines in this module
// nevertheless guard their own state internally, so each method call is
// also safe when an engine is used directly.
type Engine[K comparable, V any] interface {
	// Put inserts or updates key->val. A capacity of zero makes Put a
	// no-op.
	Put(key K, val V)

	// Get reports the current value for key and whether it is present.
	// On hit, the entry is promoted according to the engine's policy.
	Get(key K) (V, bool)

	// GetInto copies the current value for key into *out and reports
	// presence, without requiring the caller to discard a zero value on
	// a miss. On hit, the entry is promoted as with Get.
	GetInto(key K, out *V) bool

	// Contains reports whether key is currently resident, without
	// promoting it or otherwise disturbing the engine's internal
	// ordering. Callers that need to distinguish "Put overwrote an
	// existing key" from "Put admitted a new key, evicting another to
	// make room" (the sharded wrapper's eviction accounting) use this
	// instead of probing with Get, which would count as an access.
	Contains(key K) bool

	// Len returns the number of entries currently resident.
	Len() int
}

// Remover is implemented by every engine in this package: explicit
// deletion is always available, even for engines (LFU, ARC) whose
// normal capacity enforcement evicts only through their own replacement
// logic.
type Remover[K comparable] interface {
	Remove(key K) bool
}

// Factory builds one Engine instance sized for capacity entries. The
// sharded wrapper calls Factory once per shard with that shard's share of
// the total capacity.
type Factory[K comparable, V any] func(capacity int) Engine[K, V]
