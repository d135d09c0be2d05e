package simdhash

import (
	"encoding/binary"
	"math/bits"
)

// iterWidth is the SIMD group width the sparse iterator scans with.
// Spec §4.6 permits G=32 or G=64 here (wider than the probing engine's
// G=16) since the iterator only needs an occupancy test, not a tag
// compare, and a wider group amortizes the load over more slots per
// step. 64 is used whenever the control array is long enough to avoid
// reading past the trailing FORBIDDEN sentinel group; tables can be as
// small as MIN_SIZE (4096), so 64 always fits.
const iterWidth = 64
const wordsPerIterGroup = iterWidth / 8

// iterGroup is a loaded iterWidth-byte control group, held as 8-byte
// SWAR words like probeGroup but wide enough for the iterator's bulk
// occupancy scan.
type iterGroup struct {
	words [wordsPerIterGroup]uint64
}

func loadIterGroup(ctrl []byte) iterGroup {
	var g iterGroup
	for i := 0; i < wordsPerIterGroup; i++ {
		g.words[i] = binary.LittleEndian.Uint64(ctrl[i*8 : i*8+8])
	}
	return g
}

// occupiedMask returns a dense iterWidth-bit mask, one bit per lane,
// bit i set iff byte i of the group has its top bit clear (occupied).
func (g iterGroup) occupiedMask() uint64 {
	var mask uint64
	for i := 0; i < wordsPerIterGroup; i++ {
		lane := uint64(compactHighBits(^g.words[i] & msbs))
		mask |= lane << (8 * i)
	}
	return mask
}

// sparseIter walks occupied control-array slots in ascending index
// order, grouping the scan into iterWidth-wide aligned loads. Used by
// Map and Set; Index uses a plain dense-array scan instead (see
// index.go) since its entries are already compacted by rank.
type sparseIter struct {
	ctrl []byte
	base int
	mask uint64
}

func newSparseIter(ctrl []byte) *sparseIter {
	it := &sparseIter{ctrl: ctrl}
	it.fill()
	return it
}

// fill advances base to the next group with a non-empty occupancy mask,
// or past the end of ctrl if none remains.
func (it *sparseIter) fill() {
	for it.mask == 0 && it.base < len(it.ctrl) {
		end := it.base + iterWidth
		if end > len(it.ctrl) {
			end = len(it.ctrl)
		}
		it.mask = partialOccupiedMask(it.ctrl[it.base:end])
		if it.mask == 0 {
			it.base += iterWidth
		}
	}
}

// partialOccupiedMask handles both full iterWidth-byte groups (the
// common case, an aligned load) and the final short group at the tail
// of a control array whose length isn't a multiple of iterWidth.
func partialOccupiedMask(chunk []byte) uint64 {
	if len(chunk) == iterWidth {
		return loadIterGroup(chunk).occupiedMask()
	}
	var mask uint64
	for i, b := range chunk {
		if b&0x80 == 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// next returns the next occupied slot index and true, or (0, false)
// once the control array is exhausted.
func (it *sparseIter) next() (int, bool) {
	if it.mask == 0 {
		it.fill()
		if it.mask == 0 {
			return 0, false
		}
	}
	tz := bits.TrailingZeros64(it.mask)
	idx := it.base + tz
	it.mask &= it.mask - 1
	if it.mask == 0 {
		it.base += iterWidth
		it.fill()
	}
	return idx, true
}
