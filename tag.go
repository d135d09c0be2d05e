package simdhash

import "encoding/binary"

// Control byte values. The high bit distinguishes occupancy: a cleared
// high bit means the slot is occupied and the low 7 bits are the tag
// (the hash's top 7 bits). EMPTY and TOMBSTONE both have their high bit
// set and agree on 0x80 once masked with FORBIDDEN, which is what lets
// GetEmptyOrTombstoneMask reuse a single compare.
const (
	ctrlEmpty     byte = 0x80
	ctrlTombstone byte = 0x81
	ctrlForbidden byte = 0x82
)

// groupWidth is the SIMD group width G used by the probing engine (spec
// §4.4 fixes this at 16: the widest width guaranteed available and the
// best branch-free mask width).
const groupWidth = 16

// wordsPerProbeGroup is groupWidth in 8-byte SWAR words.
const wordsPerProbeGroup = groupWidth / 8

const (
	lsbs uint64 = 0x0101010101010101
	msbs uint64 = 0x8080808080808080
)

// cmpMaskWord returns a compact bitmask, one bit per byte lane (bit i
// set iff byte i of word equals the corresponding byte of target),
// where target must already be broadcast across all 8 lanes.
//
// This is the classic SWAR "find a byte" trick (Sean Eron Anderson's
// bit-twiddling hacks): XOR turns equal bytes into zero bytes, then an
// exact per-lane zero test finds them. Each lane adds its low 7 bits to
// 0x7F (at most 0xFE, so no carry crosses lanes) and ORs in the lane
// itself; the high bit stays clear only for a zero lane. It is the
// portable emulation layer the spec allows in place of a real SIMD
// compare-and-movemask instruction pair.
func cmpMaskWord(word, target uint64) uint32 {
	x := word ^ target
	nonZero := ((x & ^msbs) + ^msbs) | x
	return compactHighBits(^nonZero & msbs)
}

// compactHighBits gathers the high bit of each byte lane of word (each
// either 0x80 or 0x00) into a dense 8-bit mask, bit i <-> lane i.
func compactHighBits(word uint64) uint32 {
	var mask uint32
	for i := uint(0); i < 8; i++ {
		if word&(uint64(0x80)<<(8*i)) != 0 {
			mask |= 1 << i
		}
	}
	return mask
}

func broadcast(c byte) uint64 {
	return uint64(c) * lsbs
}

// MatchByte scans the first groupWidth bytes of buffer for c, returning
// a bitmask with bit i set iff buffer[i] == c. ok is false if buffer is
// shorter than groupWidth (the sentinel FORBIDDEN padding guarantees
// every in-bounds probe slot passes this check).
func MatchByte(c byte, buffer []byte) (mask uint32, ok bool) {
	if len(buffer) < groupWidth {
		return 0, false
	}
	lo := binary.LittleEndian.Uint64(buffer[0:8])
	hi := binary.LittleEndian.Uint64(buffer[8:16])
	target := broadcast(c)
	return cmpMaskWord(lo, target) | (cmpMaskWord(hi, target) << 8), true
}

// probeGroup is the loaded form of one groupWidth-byte control group,
// kept as two 8-byte SWAR words rather than the byte slice it came from
// so every mask operation below is branch-free arithmetic.
type probeGroup struct {
	lo, hi uint64
}

func loadProbeGroup(ctrl []byte) probeGroup {
	return probeGroup{
		lo: binary.LittleEndian.Uint64(ctrl[0:8]),
		hi: binary.LittleEndian.Uint64(ctrl[8:16]),
	}
}

// matchMask implements TagVector.GetCmpMask.
func (g probeGroup) matchMask(tag byte) uint32 {
	target := broadcast(tag)
	return cmpMaskWord(g.lo, target) | (cmpMaskWord(g.hi, target) << 8)
}

// emptyMask implements TagVector.GetEmptyMask.
func (g probeGroup) emptyMask() uint32 {
	target := broadcast(ctrlEmpty)
	return cmpMaskWord(g.lo, target) | (cmpMaskWord(g.hi, target) << 8)
}

// emptyOrTombstoneMask implements TagVector.GetEmptyOrTombstoneMask:
// compare (src & FORBIDDEN) against EMPTY. EMPTY (0x80) and TOMBSTONE
// (0x81) both reduce to 0x80 under that mask; FORBIDDEN (0x82) reduces
// to itself; occupied bytes (top bit clear) never reduce to 0x80.
func (g probeGroup) emptyOrTombstoneMask() uint32 {
	forbidden := broadcast(ctrlForbidden)
	target := broadcast(ctrlEmpty)
	return cmpMaskWord(g.lo&forbidden, target) | (cmpMaskWord(g.hi&forbidden, target) << 8)
}

// occupiedMask implements TagVector.GetNonEmptyMask for one probe
// group: bytes with the top bit clear. The sparse iterator uses its own
// iterWidth-wide iterGroup.occupiedMask (iter.go) instead.
func (g probeGroup) occupiedMask() uint32 {
	occLo := compactHighBits(^g.lo & msbs)
	occHi := compactHighBits(^g.hi & msbs)
	return occLo | (occHi << 8)
}
