package simdhash

import "testing"

func TestRoundUpToPowerOf2(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint32
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1023, 1024},
		{1024, 1024},
		{1025, 2048},
	}
	for _, tt := range tests {
		if got := roundUpToPowerOf2(tt.n); got != tt.want {
			t.Errorf("roundUpToPowerOf2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestAdjustCapacityFastIsPowerOfTwo(t *testing.T) {
	sizes := []uint32{1, 100, 4096, 4097, 100000, 1 << 20}
	for _, size := range sizes {
		got := adjustCapacity(Fast, size)
		if got < MinSize {
			t.Errorf("adjustCapacity(Fast, %d) = %d, below MinSize %d", size, got, MinSize)
		}
		if got&(got-1) != 0 {
			t.Errorf("adjustCapacity(Fast, %d) = %d, not a power of two", size, got)
		}
		if got < size {
			t.Errorf("adjustCapacity(Fast, %d) = %d, smaller than requested size", size, got)
		}
	}
}

func TestAdjustCapacitySaveMemoryNeverShrinksBelowRequest(t *testing.T) {
	modes := []Mode{SaveMemoryFast, SaveMemoryOpt, SaveMemoryMax}
	sizes := []uint32{1 << 20, 1 << 24, 1 << 25, 1 << 26, 1 << 27}
	for _, mode := range modes {
		for _, size := range sizes {
			got := adjustCapacity(mode, size)
			if uint64(got) < uint64(size) {
				t.Errorf("adjustCapacity(%v, %d) = %d, smaller than requested size", mode, size, got)
			}
		}
	}
}

func TestAdjustCapacityResizeOnlyEmptyRoundsToPage(t *testing.T) {
	got := adjustCapacity(ResizeOnlyEmpty, 10000)
	if got%pageSize != 0 {
		t.Errorf("adjustCapacity(ResizeOnlyEmpty, 10000) = %d, not page-aligned", got)
	}
	if float64(10000)/float64(got) > maxLoadFactor {
		t.Errorf("adjustCapacity(ResizeOnlyEmpty, 10000) = %d, implied load factor exceeds max", got)
	}
}

func TestAdjustCapacityClampsToBounds(t *testing.T) {
	if got := adjustCapacity(Fast, 1); got != MinSize {
		t.Errorf("adjustCapacity(Fast, 1) = %d, want MinSize %d", got, MinSize)
	}
	if got := adjustCapacity(Fast, MaxSize); got != MaxSize {
		t.Errorf("adjustCapacity(Fast, MaxSize) = %d, want %d", got, MaxSize)
	}
}

func TestIndexReducerFastMasksToCapacity(t *testing.T) {
	r := newIndexReducer(Fast, 4096)
	for _, digest := range []uint64{0, 1, 4095, 4096, 4097, ^uint64(0)} {
		got := r.adjust(digest)
		if got >= 4096 {
			t.Errorf("Fast reducer.adjust(%d) = %d, want < 4096", digest, got)
		}
		if got != digest&4095 {
			t.Errorf("Fast reducer.adjust(%d) = %d, want %d", digest, got, digest&4095)
		}
	}
}

func TestIndexReducerMultiplyStaysInBounds(t *testing.T) {
	capacities := []uint32{4096, 5000, 12345, 1 << 20}
	digests := []uint64{0, 1, 2, ^uint64(0), ^uint64(0) / 2, 0xDEADBEEF}
	for _, cap := range capacities {
		r := newIndexReducer(FastDivMod, cap)
		for _, digest := range digests {
			got := r.adjust(digest)
			if got >= uint64(cap) {
				t.Errorf("multiply reducer.adjust(%d) over capacity %d = %d, out of bounds", digest, cap, got)
			}
		}
	}
}

func TestIndexReducerMultiplyIsSurjective(t *testing.T) {
	// Every bucket in a small capacity should be reachable by some digest;
	// walking consecutive digests should exercise the full range.
	const cap = 4096
	r := newIndexReducer(FastDivMod, cap)
	seen := make([]bool, cap)
	for i := uint64(0); i < cap*4; i++ {
		seen[r.adjust(i*0x9E3779B97F4A7C15)] = true
	}
	var missing int
	for _, ok := range seen {
		if !ok {
			missing++
		}
	}
	if missing > cap/10 {
		t.Errorf("multiply reducer left %d/%d buckets unreached, want a small fraction", missing, cap)
	}
}
