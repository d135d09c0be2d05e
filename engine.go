package simdhash

// entry is the Map/Set slot payload (spec §3: "for Map, {key, value}
// packed; for Set, {key}"). Set instantiates V as struct{}, which the
// Go compiler collapses to zero extra storage.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// mapSetCore is the shared open-addressing engine behind Map and Set.
// Both store their entries at the same index as the occupied control
// byte, which is what makes the in-place cuckoo reshuffle in resize
// possible: relocating an entry during growth is just relocating the
// same slot index's control byte and entry together.
type mapSetCore[K comparable, V any] struct {
	tableBase
	entries entryPages[entry[K, V]]
	hash    HashFunc[K]
}

func newMapSetCore[K comparable, V any](mode Mode, bFix bool, maxLF float64, capacityHint uint32, hash HashFunc[K]) *mapSetCore[K, V] {
	c := &mapSetCore[K, V]{hash: hash}
	c.tableBase.init(mode, bFix, maxLF, capacityHint)
	c.entries = newEntryPages[entry[K, V]](c.capacity)
	return c
}

// findSlot implements spec §4.5's Find: scan the probe path for key.
// Callers read/write c.entries at the returned index directly, which
// is the continuation-passing design note's ReadValue/ReadRank intent
// collapsed into "give me the slot" -- simpler in Go than threading a
// closure through every call site.
func (c *mapSetCore[K, V]) findSlot(key K) (uint32, bool) {
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
			if c.entries.get(candidate).key == key {
				return candidate, true
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

// addSlot implements spec §4.5's non-unique Add path: if key is
// already present, slotIndex is its existing slot and inserted is
// false; otherwise the entry is placed at the first empty-or-tombstone
// slot along the probe path, a growth-triggering resize runs if needed,
// and slotIndex is the (possibly post-grow) final slot.
func (c *mapSetCore[K, V]) addSlot(key K) (slotIndex uint32, inserted bool) {
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
			if c.entries.get(candidate).key == key {
				return candidate, false
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
	c.entries.get(slot).key = key
	c.count++
	if c.shouldGrow() {
		c.resize(c.capacity + 1)
		slot, _ = c.findSlot(key)
	}
	return slot, true
}

// addUnique implements spec §4.5's unique Add path: the caller asserts
// key is absent, so the duplicate scan is skipped in release builds.
// When debugUniqueCheck is on, it still verifies the assertion and
// fatals on violation (spec §7's PreconditionViolation for "the unique
// fast path was incorrectly selected"); see DESIGN.md's open-question
// decision.
func (c *mapSetCore[K, V]) addUnique(key K) uint32 {
	if debugUniqueCheck {
		if _, ok := c.findSlot(key); ok {
			fatal(FatalDuplicateUnique)
		}
	}

	digest := c.hash(key)
	tag := hashToTag(digest)
	slot := c.findEmptyOrTombstone(digest)

	c.ctrl[slot] = tag
	c.entries.get(slot).key = key
	c.count++
	if c.shouldGrow() {
		c.resize(c.capacity + 1)
		slot, _ = c.findSlot(key)
	}
	return slot
}

func (c *mapSetCore[K, V]) findEmptyOrTombstone(digest uint64) uint32 {
	tupleIndex := c.adjustIndex(digest)
	var jump uint32
	for {
		group := loadProbeGroup(c.ctrl[tupleIndex : tupleIndex+groupWidth])
		if mask := group.emptyOrTombstoneMask(); mask != 0 {
			return tupleIndex + uint32(trailingZeros(mask))
		}
		jump += groupWidth
		tupleIndex = c.adjustIndex(uint64(tupleIndex) + uint64(jump))
	}
}

// remove implements spec §4.5's Remove: Find, then write TOMBSTONE.
func (c *mapSetCore[K, V]) remove(key K) bool {
	slot, ok := c.findSlot(key)
	if !ok {
		return false
	}
	c.ctrl[slot] = ctrlTombstone
	c.count--
	return true
}

// resize implements spec §4.5's growth/rehash for Map/Set. Only the
// control array is a fresh allocation (spec §4.2: TagArray resizing is
// "destructive allocation"); the entry array is grown in place (spec
// §4.3: "growth preserves existing pages"), which is what makes the
// cuckoo-style in-place reshuffle in rehashFrom necessary.
func (c *mapSetCore[K, V]) resize(size uint32) {
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

	oldCapacity := c.capacity
	prevCtrl := c.ctrl

	c.initCapacity(size)
	c.entries.growTo(c.capacity)

	if c.count == 0 {
		return
	}
	c.rehashFrom(prevCtrl, oldCapacity)
}

// rehash implements spec §4.9's directly-callable Rehash: reshuffle at
// the current capacity without growing, compacting tombstones.
func (c *mapSetCore[K, V]) rehash() {
	oldCapacity := c.capacity
	prevCtrl := c.ctrl
	c.initCapacity(oldCapacity)
	if c.count == 0 {
		return
	}
	c.rehashFrom(prevCtrl, oldCapacity)
}

// rehashFrom relocates every occupied slot in prevCtrl[0:oldCapacity]
// into c.ctrl/c.entries at its new probe position (spec §4.5): a
// cuckoo-style swap whenever a new home is still claimed by an old
// occupant this sweep hasn't reached yet. c.entries is the same
// backing array before and after the call; only the control array
// differs, which is what makes marking prevCtrl slots EMPTY as they're
// vacated sufficient to avoid clobbering an unmoved entry.
func (c *mapSetCore[K, V]) rehashFrom(prevCtrl []byte, oldCapacity uint32) {
	prevCount := c.count
	c.count = 0
	for i := uint32(0); i < oldCapacity; i++ {
		if prevCtrl[i]&ctrlEmpty != 0 {
			continue
		}
		prevEntry := *c.entries.get(i)
		prevTag := prevCtrl[i]
		prevCtrl[i] = ctrlEmpty

		for {
			digest := c.hash(prevEntry.key)
			emptyIndex := c.findEmpty(digest)

			if emptyIndex >= oldCapacity || prevCtrl[emptyIndex]&ctrlEmpty != 0 {
				c.ctrl[emptyIndex] = prevTag
				*c.entries.get(emptyIndex) = prevEntry
				c.count++
				break
			}

			saveTag := prevCtrl[emptyIndex]
			prevCtrl[emptyIndex] = ctrlEmpty
			c.ctrl[emptyIndex] = prevTag
			prevTag = saveTag

			saveEntry := *c.entries.get(emptyIndex)
			*c.entries.get(emptyIndex) = prevEntry
			prevEntry = saveEntry
			c.count++
		}
	}
	if c.count != prevCount {
		panic("simdhash: rehash lost or duplicated entries")
	}
}

// clear implements spec §4.5's Clear.
func (c *mapSetCore[K, V]) clear(sizeHint uint32) {
	c.count = 0
	if sizeHint > 0 && adjustCapacity(c.mode, sizeHint) != c.capacity {
		c.initCapacity(sizeHint)
		c.entries = newEntryPages[entry[K, V]](c.capacity)
		return
	}
	for i := range c.ctrl[:c.capacity] {
		c.ctrl[i] = ctrlEmpty
	}
}

// iterate calls yield for every occupied slot in ascending index order
// (spec §4.6), stopping early if yield returns false.
func (c *mapSetCore[K, V]) iterate(yield func(key K, value *V) bool) {
	it := newSparseIter(c.ctrl[:c.capacity])
	for {
		idx, ok := it.next()
		if !ok {
			return
		}
		e := c.entries.get(uint32(idx))
		if !yield(e.key, &e.value) {
			return
		}
	}
}
