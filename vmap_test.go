package simdhash

// Vmap is a self-validating wrapper around Map. It wraps a Map and
// validates various aspects of its operation, including during Range
// where it tracks whether a key is allowed to be seen zero times,
// exactly once, or multiple times due to Add/Remove during the
// iteration itself.
//
// It is intended to work well with fuzzing. See autofuzzchain_test.go
// for an example.

import (
	"fmt"
	"sort"
	"testing"
)

type OpType byte

const (
	GetOp OpType = iota
	SetOp
	DeleteOp
	LenOp
	RangeOp

	BulkGetOp // must be first bulk op, after non-bulk ops
	BulkSetOp
	BulkDeleteOp

	OpTypeCount
)

type Op struct {
	OpType OpType

	// used only if Op is not a bulk op
	Key int

	// used only if Op is a bulk op
	Keys Keys

	// used during a Range to specify when to do this op,
	// not used if this Op is not used in a Range
	RangeIndex uint16
}

func (o Op) String() string {
	t := o.OpType % OpTypeCount
	switch {
	case t < BulkGetOp:
		return fmt.Sprintf("{Op: %v Key: %v}", t, o.Key)
	case t < OpTypeCount:
		return fmt.Sprintf("{Op: %v Keys: %v RangeIndex: %v}", t, o.Keys, o.RangeIndex)
	default:
		return fmt.Sprintf("{Op: unknown %v}", o.OpType)
	}
}

type Keys struct {
	Start, End, Stride uint8 // [Start, End) - start inclusive, end exclusive
}

// Vmap is a self-validating wrapper around Map[int, int].
type Vmap struct {
	m *Map[int, int]

	// repeat any operations on our Map to a mirrored runtime map
	mirror map[int]int
}

func identityHash(k int) uint64 { return uint64(k) }

// NewVmap builds a Vmap seeded with each key in start, mapped to
// itself. It deliberately
// uses identityHash rather than DefaultHash: a poor hash stresses
// probe-chain handling harder than a well-mixed one.
func NewVmap(capacity int, start []int) *Vmap {
	vm := &Vmap{}
	vm.m = New[int, int](WithCapacityHint[int](capacity), WithHash(HashFunc[int](identityHash)))
	vm.mirror = make(map[int]int)
	for _, k := range start {
		vm.Set(k, k)
	}
	return vm
}

func (vm *Vmap) Get(k int) (v int, ok bool) {
	if debugVmap {
		println("Get key:", k)
	}
	got, gotOk := vm.m.TryGetValue(k)
	want, wantOk := vm.mirror[k]
	if want != got || gotOk != wantOk {
		panic(fmt.Sprintf("Map.TryGetValue(%v) = %v, %v. want = %v, %v", k, got, gotOk, want, wantOk))
	}
	return got, gotOk
}

func (vm *Vmap) Set(k, v int) {
	if debugVmap {
		println("Set key:", k)
	}
	vm.m.AddOrUpdate(k, v)
	vm.mirror[k] = v
}

func (vm *Vmap) Delete(k int) {
	if debugVmap {
		println("Delete key:", k)
	}
	vm.m.Remove(k)
	delete(vm.mirror, k)
}

func (vm *Vmap) Len() int {
	got := vm.m.Count()
	want := len(vm.mirror)
	if want != got {
		panic(fmt.Sprintf("Map.Count() = %v, want %v", got, want))
	}
	return got
}

// Bulk operations

func (vm *Vmap) GetBulk(list Keys) {
	for _, key := range keySlice(list) {
		vm.Get(key)
	}
}

func (vm *Vmap) SetBulk(list Keys) {
	for _, key := range keySlice(list) {
		vm.Set(key, key)
	}
}

func (vm *Vmap) DeleteBulk(list Keys) {
	for _, key := range keySlice(list) {
		vm.Delete(key)
	}
}

func (vm *Vmap) Range(ops []Op) {
	// we fix up RangeIndex to make the values useful more often
	for i := range ops {
		if ops[i].RangeIndex > 5001 {
			ops[i].RangeIndex = 0
		}
	}

	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].RangeIndex < ops[j].RangeIndex
	})

	// allowed tracks start + added - deleted; these keys are allowed but not required.
	allowed := newKeySet()
	// mustSee tracks start - deleted; these are keys we are required to see at some point.
	mustSee := newKeySet()
	for k := range vm.mirror {
		allowed.add(k)
		mustSee.add(k)
	}

	// seen verifies no unexpected dups, and at the end, verifies mustSee.
	seen := newKeySet()

	// Tracks whether key X is added, deleted, and then re-added during
	// iteration, which is legal to see again per the sparse iterator's
	// contract (spec §4.6: iteration reflects live occupancy).
	deleted := newKeySet()
	addedAfterDeleted := newKeySet()

	trackSet := func(k int) {
		allowed.add(k)
		if deleted.contains(k) {
			addedAfterDeleted.add(k)
			deleted.remove(k)
		}
	}

	trackDelete := func(k int) {
		allowed.remove(k)
		mustSee.remove(k) // no longer required to see this; fine if we saw it earlier.
		deleted.add(k)
		addedAfterDeleted.remove(k)
	}

	var rangeIndex uint16
	vm.m.Range(func(key, value int) bool {
		if seen.contains(key) && !addedAfterDeleted.contains(key) {
			panic(fmt.Sprintf("Map.Range() saw key %v more than once", key))
		}
		seen.add(key)

		for len(ops) > 0 {
			op := ops[0]
			if op.RangeIndex != rangeIndex {
				break
			}

			switch op.OpType % OpTypeCount {
			case GetOp:
				vm.Get(op.Key)
			case SetOp:
				vm.Set(op.Key, op.Key)
				trackSet(op.Key)
			case DeleteOp:
				vm.Delete(op.Key)
				trackDelete(op.Key)
			case LenOp:
				vm.Len()
			case RangeOp:
				// Ignore: a nested Range could produce O(n^2) or worse.
			case BulkGetOp:
				for _, key := range keySlice(op.Keys) {
					vm.Get(key)
				}
			case BulkSetOp:
				for _, key := range keySlice(op.Keys) {
					vm.Set(key, key)
					trackSet(key)
				}
			case BulkDeleteOp:
				for _, key := range keySlice(op.Keys) {
					vm.Delete(key)
					trackDelete(key)
				}
			default:
				panic("unexpected OpType")
			}

			ops = ops[1:]
		}
		rangeIndex++
		return true // keep iterating
	})

	for _, key := range mustSee.elems() {
		if !seen.contains(key) {
			panic(fmt.Sprintf("Map.Range() expected key %v not seen", key))
		}
	}
}

// keySlice converts from start/end/stride to a []int.
func keySlice(list Keys) []int {
	start, end := int(list.Start), int(list.End)
	switch {
	case start > end:
		start, end = end, start
	case start == end:
		return nil
	}

	var stride int
	switch {
	case list.Stride < 128:
		stride = 1 // prefer stride of 1
	default:
		stride = int(list.Stride%8) + 1
	}

	var res []int
	for i := start; i < end; i += stride {
		res = append(res, i)
	}
	return res
}

// keySet is a plain set of int, used only to track expected Range
// visibility in these tests.
type keySet map[int]struct{}

func newKeySet() keySet { return make(keySet) }

func (s keySet) add(k int)      { s[k] = struct{}{} }
func (s keySet) remove(k int)   { delete(s, k) }
func (s keySet) contains(k int) bool {
	_, ok := s[k]
	return ok
}
func (s keySet) elems() []int {
	res := make([]int, 0, len(s))
	for k := range s {
		res = append(res, k)
	}
	return res
}

func TestValidatingMap_Range(t *testing.T) {
	tests := []struct {
		name string
		ops  []Op
	}{
		{
			name: "",
			ops: []Op{
				{OpType: GetOp, Key: 1, RangeIndex: 0},
				{OpType: GetOp, Key: 2, RangeIndex: 0},
				{OpType: SetOp, Key: 3, RangeIndex: 2}, // should happen last
				{OpType: 55, Key: 4, RangeIndex: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Logf("ops: %v", tt.ops)
			vm := NewVmap(100, nil)
			vm.Set(100, 100)
			vm.Set(101, 101)
			vm.Set(102, 102)
			vm.Range(tt.ops)
		})
	}
}

const debugVmap = false
