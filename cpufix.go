package simdhash

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// trailingZeros is the single, bug-free tzcnt path described in spec
// §9's open question: one vendored version of the C++ original
// duplicated the 0x0800 test in its bFix branch where 0x1000 was
// clearly meant, silently corrupting trailing-zero counts above bit 11.
// math/bits.TrailingZeros32 has no such branch-cascade implementation
// to get wrong, so bFix does not change which function runs here -- see
// DESIGN.md for the full decision.
func trailingZeros(mask uint32) int {
	return bits.TrailingZeros32(mask)
}

// autoBFix reports the bFix default for the running CPU (spec §6's
// bFix config option): true when the platform lacks the instruction a
// native trailing-zero-count would use (BMI1 on amd64), signaling that
// a from-scratch implementation should prefer the portable cascade over
// a hardware intrinsic. Go's math/bits already abstracts this at the
// compiler level, so bFix here is informational: it's surfaced through
// Options and Map/Set/Index.BFix() so callers porting this engine to a
// platform with hand-written SIMD can decide whether to keep their
// native path or fall back, without this package having to vendor two
// tzcnt implementations itself.
func autoBFix() bool {
	if cpu.X86.HasBMI1 {
		return false
	}
	return true
}
