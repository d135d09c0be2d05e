package simdhash

// indexCore is the engine behind Index. Unlike Map/Set, dense ranks
// never move (spec §4.5): the control array maps a probe slot to a
// rank via a parallel array, and the actual key lives at that rank in
// a separately-growing dense array. This keeps the two invariants --
// "rank is a permutation of [0,Count)" and "control slot finds its
// key" -- orthogonal, which is the canonical variant spec §9 picks
// between the two vendored alternatives.
type indexCore[K comparable] struct {
	tableBase
	ranks entryPages[uint32] // control-slot index -> dense rank
	dense entryPages[K]      // dense rank -> key
	hash  HashFunc[K]
}

func newIndexCore[K comparable](mode Mode, bFix bool, maxLF float64, capacityHint uint32, hash HashFunc[K]) *indexCore[K] {
	c := &indexCore[K]{hash: hash}
	c.tableBase.init(mode, bFix, maxLF, capacityHint)
	c.ranks = newEntryPages[uint32](c.capacity)
	c.dense = newEntryPages[K](MinSize)
	return c
}

func (c *indexCore[K]) findRank(key K) (rank uint32, ok bool) {
	digest := c.hash(key)
	target := hashToTag(digest)
	tupleIndex := c.adjustIndex(digest)
	var jump uint32
	for {
		group := loadProbeGroup(c.ctrl[tupleIndex : tupleIndex+groupWidth])
		mask := group.matchMask(target)
		for mask != 0 {
			bit := uint32(trailingZeros(mask))
			candidate := tupleIndex + bit
			r := *c.ranks.get(candidate)
			if *c.dense.get(r) == key {
				return r, true
			}
			mask &= mask - 1
		}
		if group.emptyMask() != 0 {
			return 0, false
		}
		jump += groupWidth
		tupleIndex = c.adjustIndex(uint64(tupleIndex) + uint64(jump))
	}
}

// add implements Index.Add/TryAdd (spec §4.7): places key at a fresh
// dense rank (the next Count) if absent. inserted reports whether a new
// rank was assigned; rank is always the entry's rank either way.
func (c *indexCore[K]) add(key K) (rank uint32, inserted bool) {
	digest := c.hash(key)
	tag := hashToTag(digest)
	tupleIndex := c.adjustIndex(digest)
	var jump uint32
	var emptyMask uint32

	for {
		group := loadProbeGroup(c.ctrl[tupleIndex : tupleIndex+groupWidth])
		mask := group.matchMask(tag)
		for mask != 0 {
			bit := uint32(trailingZeros(mask))
			candidate := tupleIndex + bit
			r := *c.ranks.get(candidate)
			if *c.dense.get(r) == key {
				return r, false
			}
			mask &= mask - 1
		}
		if emptyMask = group.emptyOrTombstoneMask(); emptyMask != 0 {
			break
		}
		jump += groupWidth
		tupleIndex = c.adjustIndex(uint64(tupleIndex) + uint64(jump))
	}

	slot := tupleIndex + uint32(trailingZeros(emptyMask))
	c.ctrl[slot] = tag
	newRank := c.count
	*c.ranks.get(slot) = newRank
	c.dense.growTo(newRank + 1)
	*c.dense.get(newRank) = key

	c.count++
	if c.shouldGrow() {
		c.resize(c.capacity + 1)
	}
	return newRank, true
}

// resize implements spec §4.5's Index rehash: dense ranks never move,
// only the control array and the parallel rank array are rebuilt by
// re-tagging from the dense array in rank order.
func (c *indexCore[K]) resize(size uint32) {
	if c.mode == ResizeOnlyEmpty && c.count != 0 {
		fatal(FatalResizeNotEmpty)
	}
	newCapacity := adjustCapacity(c.mode, size)
	if newCapacity < c.capacity {
		return
	}
	if size > MaxSize {
		fatal(FatalCapacityExceeded)
	}
	c.initCapacity(size)
	c.ranks = newEntryPages[uint32](c.capacity)
	c.retag()
}

// rehash implements the directly-callable Rehash for Index: re-tag at
// the current capacity (no-op in practice since Index never produces
// tombstones, kept for API symmetry with Map/Set).
func (c *indexCore[K]) rehash() {
	c.initCapacity(c.capacity)
	c.ranks = newEntryPages[uint32](c.capacity)
	c.retag()
}

func (c *indexCore[K]) retag() {
	for r := uint32(0); r < c.count; r++ {
		key := *c.dense.get(r)
		digest := c.hash(key)
		tag := hashToTag(digest)
		slot := c.findEmpty(digest)
		c.ctrl[slot] = tag
		*c.ranks.get(slot) = r
	}
}

// clear implements Clear for Index: ranks are discarded, dense storage
// is logically truncated to zero (existing pages are kept and reused
// by the next round of inserts).
func (c *indexCore[K]) clear(sizeHint uint32) {
	c.count = 0
	c.dense.n = 0
	if sizeHint > 0 && adjustCapacity(c.mode, sizeHint) != c.capacity {
		c.initCapacity(sizeHint)
		c.ranks = newEntryPages[uint32](c.capacity)
		return
	}
	for i := range c.ctrl[:c.capacity] {
		c.ctrl[i] = ctrlEmpty
	}
}

// keyAt returns the key at dense rank r, used by the dense iterator.
func (c *indexCore[K]) keyAt(r uint32) K {
	return *c.dense.get(r)
}
