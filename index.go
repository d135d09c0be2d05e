package simdhash

import "github.com/sanity-io/litter"

// Index assigns each distinct K a stable dense rank in [0, Count) (spec
// §1/§4.7). Ranks are never remapped as other keys are added, which is
// why Index -- unlike Map/Set -- has no Remove: deleting a rank would
// either leave a hole or force a remap, both of which break that
// guarantee.
type Index[K comparable] struct {
	core *indexCore[K]
}

// NewIndex constructs an Index with the given options.
func NewIndex[K comparable](opts ...Option[K]) *Index[K] {
	cfg := buildConfig(opts)
	return &Index[K]{
		core: newIndexCore[K](cfg.mode, cfg.bFix, cfg.maxLF, cfg.capacityHint, cfg.hash),
	}
}

// Add assigns key a rank if absent, returning its rank either way.
func (x *Index[K]) Add(key K) int {
	rank, _ := x.core.add(key)
	return int(rank)
}

// TryAdd assigns key a rank if absent. inserted reports whether a new
// rank was assigned; rank is the entry's rank either way.
func (x *Index[K]) TryAdd(key K) (rank int, inserted bool) {
	r, ins := x.core.add(key)
	return int(r), ins
}

// TryGetIndex reports whether key is present, and if so its rank.
func (x *Index[K]) TryGetIndex(key K) (rank int, ok bool) {
	r, ok := x.core.findRank(key)
	return int(r), ok
}

// GetIndex returns key's rank, or Capacity() if key is absent: a
// branch-free "absent means past-the-end" convention recovered from
// the C++ original's sentinel-returning accessor (see SPEC_FULL.md).
func (x *Index[K]) GetIndex(key K) int {
	r, ok := x.core.findRank(key)
	if !ok {
		return int(x.core.capacity)
	}
	return int(r)
}

// KeyAt returns the key holding rank r. r must be in [0, Count).
func (x *Index[K]) KeyAt(rank int) K {
	return x.core.keyAt(uint32(rank))
}

// Contains reports whether key has been assigned a rank.
func (x *Index[K]) Contains(key K) bool {
	_, ok := x.core.findRank(key)
	return ok
}

// Count returns the number of ranks assigned so far.
func (x *Index[K]) Count() int { return int(x.core.count) }

// Capacity returns the number of control slots currently allocated.
func (x *Index[K]) Capacity() int { return int(x.core.capacity) }

// LoadFactor returns Count/Capacity.
func (x *Index[K]) LoadFactor() float64 { return x.core.loadFactor() }

// BFix reports whether this Index is configured to prefer the portable
// trailing-zero-count cascade over a native BMI1 intrinsic (spec §6).
func (x *Index[K]) BFix() bool { return x.core.bFix }

// MaxLoadFactor returns the current growth threshold.
func (x *Index[K]) MaxLoadFactor() float64 { return x.core.maxLF }

// SetMaxLoadFactor updates the growth threshold; see Map.SetMaxLoadFactor.
func (x *Index[K]) SetMaxLoadFactor(mlf float64) {
	x.core.setMaxLoadFactor(mlf)
}

// Resize grows the index to accommodate at least size elements.
func (x *Index[K]) Resize(size int) {
	x.core.resize(uint32(size))
}

// Rehash re-tags the control array at the current capacity. Ranks
// never move, so this only ever affects probe lengths, never the
// permutation-of-[0,Count) invariant.
func (x *Index[K]) Rehash() {
	x.core.rehash()
}

// Clear discards every rank. If sizeHint is non-zero and differs from
// the current capacity, the index is reallocated at that size.
func (x *Index[K]) Clear(sizeHint int) {
	x.core.clear(uint32(sizeHint))
}

// Range calls f for every key in ascending rank order, stopping early
// if f returns false. Unlike Map/Set's sparse-scan Range, this walks
// the dense array directly since ranks are contiguous by construction.
func (x *Index[K]) Range(f func(rank int, key K) bool) {
	for r := uint32(0); r < x.core.count; r++ {
		if !f(int(r), x.core.keyAt(r)) {
			return
		}
	}
}

// DebugDump pretty-prints the index's internal state via litter.
func (x *Index[K]) DebugDump() string {
	return litter.Sdump(x.core)
}
