package simdhash

import "github.com/sanity-io/litter"

// Map is an associative container from K to V (spec §1/§4.7). Keys are
// unique; iteration order is unspecified but deterministic given the
// same insertion/removal history (spec §5).
type Map[K comparable, V any] struct {
	core *mapSetCore[K, V]
}

// New constructs a Map with the given options. Capacity is a hint:
// construction always allocates at least MinSize slots (spec §3).
func New[K comparable, V any](opts ...Option[K]) *Map[K, V] {
	cfg := buildConfig(opts)
	return &Map[K, V]{
		core: newMapSetCore[K, V](cfg.mode, cfg.bFix, cfg.maxLF, cfg.capacityHint, cfg.hash),
	}
}

// Add inserts key with value. It returns true if key was not already
// present; if key existed, the value is left untouched and false is
// returned (spec §4.7).
func (m *Map[K, V]) Add(key K, value V) bool {
	slot, inserted := m.core.addSlot(key)
	if inserted {
		m.core.entries.get(slot).value = value
	}
	return inserted
}

// AddUnique is the unique Add fast path (spec §4.5/§9): the caller
// asserts key is absent. Misuse silently inserts a duplicate.
func (m *Map[K, V]) AddUnique(key K, value V) {
	slot := m.core.addUnique(key)
	m.core.entries.get(slot).value = value
}

// AddOrUpdate inserts key with value, or overwrites the existing value
// if key is already present. Returns true if a new entry was inserted.
func (m *Map[K, V]) AddOrUpdate(key K, value V) bool {
	slot, inserted := m.core.addSlot(key)
	m.core.entries.get(slot).value = value
	return inserted
}

// Update overwrites the value for an existing key. Returns false and
// leaves the map untouched if key is absent.
func (m *Map[K, V]) Update(key K, value V) bool {
	slot, ok := m.core.findSlot(key)
	if !ok {
		return false
	}
	m.core.entries.get(slot).value = value
	return true
}

// TryGetValue reports whether key is present, and if so returns its value.
func (m *Map[K, V]) TryGetValue(key K) (value V, ok bool) {
	slot, ok := m.core.findSlot(key)
	if !ok {
		return value, false
	}
	return m.core.entries.get(slot).value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.core.findSlot(key)
	return ok
}

// Remove deletes key, returning false if it was absent.
func (m *Map[K, V]) Remove(key K) bool {
	return m.core.remove(key)
}

// Count returns the number of entries currently stored.
func (m *Map[K, V]) Count() int { return int(m.core.count) }

// Capacity returns the number of control slots currently allocated.
func (m *Map[K, V]) Capacity() int { return int(m.core.capacity) }

// LoadFactor returns Count/Capacity.
func (m *Map[K, V]) LoadFactor() float64 { return m.core.loadFactor() }

// BFix reports whether this Map is configured to prefer the portable
// trailing-zero-count cascade over a native BMI1 intrinsic (spec §6).
func (m *Map[K, V]) BFix() bool { return m.core.bFix }

// MaxLoadFactor returns the current growth threshold.
func (m *Map[K, V]) MaxLoadFactor() float64 { return m.core.maxLF }

// SetMaxLoadFactor updates the growth threshold (a value outside
// [0.75, 0.99] is ignored) and immediately recomputes the growth-limit
// counter against the current capacity (recovered from the C++
// original; see SPEC_FULL.md).
func (m *Map[K, V]) SetMaxLoadFactor(mlf float64) {
	m.core.setMaxLoadFactor(mlf)
}

// Resize grows the table to accommodate at least size elements under
// the configured Mode. Under ResizeOnlyEmpty, calling Resize while the
// table holds any element is a fatal PreconditionViolation.
func (m *Map[K, V]) Resize(size int) {
	m.core.resize(uint32(size))
}

// Rehash forces a reshuffle at the current capacity, compacting
// tombstones without growing (recovered from the C++ original).
func (m *Map[K, V]) Rehash() {
	m.core.rehash()
}

// Clear removes all entries. If sizeHint is non-zero and differs from
// the current capacity, the table is reallocated at that size.
func (m *Map[K, V]) Clear(sizeHint int) {
	m.core.clear(uint32(sizeHint))
}

// Range calls f for every entry, in unspecified order, stopping early
// if f returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.core.iterate(func(key K, value *V) bool { return f(key, *value) })
}

// DebugDump pretty-prints the map's internal state via
// github.com/sanity-io/litter, for interactive debugging.
func (m *Map[K, V]) DebugDump() string {
	return litter.Sdump(m.core)
}
