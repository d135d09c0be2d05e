package simdhash

import "github.com/sanity-io/litter"

// Set is a collection of unique K (spec §1/§4.7).
type Set[K comparable] struct {
	core *mapSetCore[K, struct{}]
}

// NewSet constructs a Set with the given options.
func NewSet[K comparable](opts ...Option[K]) *Set[K] {
	cfg := buildConfig(opts)
	return &Set[K]{
		core: newMapSetCore[K, struct{}](cfg.mode, cfg.bFix, cfg.maxLF, cfg.capacityHint, cfg.hash),
	}
}

// Add inserts key, returning true if it was not already present.
func (s *Set[K]) Add(key K) bool {
	_, inserted := s.core.addSlot(key)
	return inserted
}

// AddUnique is the unique Add fast path (spec §4.5/§9): the caller
// asserts key is absent. Misuse silently inserts a duplicate.
func (s *Set[K]) AddUnique(key K) {
	s.core.addUnique(key)
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	_, ok := s.core.findSlot(key)
	return ok
}

// Remove deletes key, returning false if it was absent.
func (s *Set[K]) Remove(key K) bool {
	return s.core.remove(key)
}

// Count returns the number of keys currently stored.
func (s *Set[K]) Count() int { return int(s.core.count) }

// Capacity returns the number of control slots currently allocated.
func (s *Set[K]) Capacity() int { return int(s.core.capacity) }

// LoadFactor returns Count/Capacity.
func (s *Set[K]) LoadFactor() float64 { return s.core.loadFactor() }

// BFix reports whether this Set is configured to prefer the portable
// trailing-zero-count cascade over a native BMI1 intrinsic (spec §6).
func (s *Set[K]) BFix() bool { return s.core.bFix }

// MaxLoadFactor returns the current growth threshold.
func (s *Set[K]) MaxLoadFactor() float64 { return s.core.maxLF }

// SetMaxLoadFactor updates the growth threshold; see Map.SetMaxLoadFactor.
func (s *Set[K]) SetMaxLoadFactor(mlf float64) {
	s.core.setMaxLoadFactor(mlf)
}

// Resize grows the set to accommodate at least size elements.
func (s *Set[K]) Resize(size int) {
	s.core.resize(uint32(size))
}

// Rehash forces a reshuffle at the current capacity, compacting tombstones.
func (s *Set[K]) Rehash() {
	s.core.rehash()
}

// Clear removes all keys. If sizeHint is non-zero and differs from the
// current capacity, the set is reallocated at that size.
func (s *Set[K]) Clear(sizeHint int) {
	s.core.clear(uint32(sizeHint))
}

// Range calls f for every key, in unspecified order, stopping early if
// f returns false.
func (s *Set[K]) Range(f func(key K) bool) {
	s.core.iterate(func(key K, _ *struct{}) bool { return f(key) })
}

// DebugDump pretty-prints the set's internal state via litter.
func (s *Set[K]) DebugDump() string {
	return litter.Sdump(s.core)
}
