package simdhash

import "testing"

func occupiedIndices(ctrl []byte) []int {
	it := newSparseIter(ctrl)
	var got []int
	for {
		idx, ok := it.next()
		if !ok {
			return got
		}
		got = append(got, idx)
	}
}

func TestSparseIterEmpty(t *testing.T) {
	ctrl := make([]byte, 128)
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}
	if got := occupiedIndices(ctrl); len(got) != 0 {
		t.Fatalf("occupiedIndices() = %v, want empty", got)
	}
}

func TestSparseIterSparseSingleBits(t *testing.T) {
	ctrl := make([]byte, 200)
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}
	want := []int{0, 1, 63, 64, 65, 127, 199}
	for _, i := range want {
		ctrl[i] = 0x05 // an occupied tag
	}
	got := occupiedIndices(ctrl)
	if len(got) != len(want) {
		t.Fatalf("occupiedIndices() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occupiedIndices()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSparseIterSkipsTombstonesAndForbidden(t *testing.T) {
	ctrl := make([]byte, 80)
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}
	ctrl[5] = ctrlTombstone
	ctrl[6] = ctrlForbidden
	ctrl[7] = 0x2A // occupied
	got := occupiedIndices(ctrl)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("occupiedIndices() = %v, want [7]", got)
	}
}

func TestSparseIterRaggedTail(t *testing.T) {
	// Length not a multiple of iterWidth exercises partialOccupiedMask's
	// byte-at-a-time fallback for the final short group.
	ctrl := make([]byte, iterWidth+10)
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}
	ctrl[iterWidth+3] = 0x01
	got := occupiedIndices(ctrl)
	if len(got) != 1 || got[0] != iterWidth+3 {
		t.Fatalf("occupiedIndices() = %v, want [%d]", got, iterWidth+3)
	}
}

func TestSparseIterAllOccupied(t *testing.T) {
	ctrl := make([]byte, 256)
	for i := range ctrl {
		ctrl[i] = byte(i % 100) // all have the top bit clear
	}
	got := occupiedIndices(ctrl)
	if len(got) != len(ctrl) {
		t.Fatalf("occupiedIndices() returned %d slots, want %d", len(got), len(ctrl))
	}
	for i, idx := range got {
		if idx != i {
			t.Fatalf("occupiedIndices()[%d] = %d, want %d", i, idx, i)
		}
	}
}
