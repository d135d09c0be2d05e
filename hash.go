package simdhash

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// HashFunc is the hash function interface the engine requires of a
// caller: a pure K -> uint64 digest (spec §6). Quality requirement: the
// top 7 bits (used as the occupied tag) and the low bits (used as the
// bucket coordinate) must both be well mixed.
type HashFunc[K any] func(k K) uint64

//go:linkname memhash runtime.memhash
//go:noescape
func memhash(p unsafe.Pointer, seed, s uintptr) uintptr

// hashSeed randomizes memhash-based digests per process, the way the Go
// runtime's own map implementation seeds its hasher, so that two runs
// of the same program don't see identical probe-length degradation for
// adversarial key sequences.
var hashSeed = uintptr(seedFromTime())

// DefaultHash returns the package's convenience hash for any
// trivially-copyable, fixed-size key type, built on the same
// runtime.memhash the Go compiler uses for the builtin map (spec §1:
// "a default hash ... is provided as a convenience but is not part of
// the core contract"). It is not defined for types containing
// pointers, slices, maps, funcs, or interfaces.
func DefaultHash[K comparable]() HashFunc[K] {
	var zero K
	size := unsafe.Sizeof(zero)
	return func(k K) uint64 {
		return uint64(memhash(unsafe.Pointer(&k), hashSeed, size))
	}
}

// HashString returns an xxhash-based hash function for string keys.
// xxhash is a much better fit than memhash for variable-length keys:
// it's non-cryptographic, branch-light, and well distributed across
// its full 64 bits, matching this engine's requirement that both the
// top 7 bits and the low bits be well mixed.
func HashString() HashFunc[string] {
	return func(s string) uint64 {
		return xxhash.Sum64String(s)
	}
}

// HashBytes is HashString's counterpart for []byte keys.
func HashBytes() HashFunc[[]byte] {
	return func(b []byte) uint64 {
		return xxhash.Sum64(b)
	}
}

// seedFromTime derives a process-lifetime hash seed without pulling in
// crypto/rand: the address of a fresh heap allocation is already an
// ASLR-randomized 64-bit value on every platform Go supports.
func seedFromTime() uintptr {
	x := new(int)
	return uintptr(unsafe.Pointer(x))
}
