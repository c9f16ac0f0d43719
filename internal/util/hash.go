// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash64 hashes common key types using xxhash, a fast non-cryptographic
// hash well suited to sharding and map-bucket selection.
// Supported: string, []byte, [16|32|64]byte, all int/uint widths, uintptr, fmt.Stringer.
// For other key types, either convert the key to string or supply a custom hasher upstream.
// Panicking on unsupported types is deliberate to avoid silently poor hashing.
func Hash64[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxhash.Sum64String(v)
	case []byte:
		return xxhash.Sum64(v)
	case [16]byte:
		return xxhash.Sum64(v[:])
	case [32]byte:
		return xxhash.Sum64(v[:])
	case [64]byte:
		return xxhash.Sum64(v[:])

	// Integer-like keys: hash little-endian bytes of the value.
	case uint8:
		return hashUint64(uint64(v))
	case uint16:
		return hashUint64(uint64(v))
	case uint32:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uint:
		return hashUint64(uint64(v))
	case uintptr:
		return hashUint64(uint64(v))
	case int8:
		return hashUint64(uint64(uint8(v)))
	case int16:
		return hashUint64(uint64(uint16(v)))
	case int32:
		return hashUint64(uint64(uint32(v)))
	case int64:
		return hashUint64(uint64(v))
	case int:
		return hashUint64(uint64(v))

	// Fallback for pseudo-keys via String() (avoid if you can).
	case fmt.Stringer:
		return xxhash.Sum64String(v.String())
	default:
		panic(fmt.Sprintf("util.Hash64: unsupported key type %T; convert key to string or provide a custom hasher", k))
	}
}

// hashUint64 hashes the 8 little-endian bytes of u.
func hashUint64(u uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return xxhash.Sum64(buf[:])
}
