package linear

import (
	stderrors "errors"
	"testing"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
)

func TestFreeList_AlignmentAndReserved(t *testing.T) {
	mem := NewBuffer(1, 1)
	fl := NewFreeList(mem)

	a, err := fl.Alloc(3, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a < ReservedBytes {
		t.Errorf("allocation %d inside reserved region", a)
	}

	b, err := fl.Alloc(32, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if b%8 != 0 {
		t.Errorf("allocation %d not 8-aligned", b)
	}
	if b < a+3 {
		t.Errorf("allocations overlap: %d and %d", a, b)
	}
}

func TestFreeList_ReusesFreedBlocks(t *testing.T) {
	fl := NewFreeList(NewBuffer(1, 1))

	p1, _ := fl.Alloc(32, 8)
	p2, _ := fl.Alloc(32, 8)
	fl.Free(p1, 32, 8)

	p3, err := fl.Alloc(32, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p3 != p1 {
		t.Errorf("expected freed block %d to be reused, got %d", p1, p3)
	}

	// different size class must not take the freed block
	fl.Free(p2, 32, 8)
	p4, _ := fl.Alloc(16, 8)
	if p4 == p2 {
		t.Error("block reused across size classes")
	}

	st := fl.Stats()
	if st.Allocs != 4 || st.Frees != 2 {
		t.Errorf("stats = %+v", st)
	}
	if st.InUse != 32+16 {
		t.Errorf("InUse = %d, want 48", st.InUse)
	}
}

func TestFreeList_GrowsMemory(t *testing.T) {
	mem := NewBuffer(1, 4)
	fl := NewFreeList(mem)

	for i := 0; i < 3000; i++ {
		if _, err := fl.Alloc(32, 8); err != nil {
			t.Fatalf("Alloc %d: %v", i, err)
		}
	}
	if mem.Size() <= chainabi.PageSize {
		t.Errorf("memory did not grow: %d", mem.Size())
	}
}

func TestFreeList_LimitReached(t *testing.T) {
	fl := NewFreeList(NewBuffer(1, 1))

	var err error
	for i := 0; i < chainabi.PageSize/32+1; i++ {
		if _, err = fl.Alloc(32, 8); err != nil {
			break
		}
	}
	if err == nil {
		t.Fatal("expected allocation failure once the page is full")
	}
	if !stderrors.Is(err, errors.ErrAllocation) {
		t.Errorf("err = %v, want allocation error", err)
	}
}

func TestFreeList_InvalidRequests(t *testing.T) {
	fl := NewFreeList(NewBuffer(1, 1))

	if _, err := fl.Alloc(0, 8); err == nil {
		t.Error("zero-sized allocation should fail")
	}
	if _, err := fl.Alloc(8, 3); err == nil {
		t.Error("non power-of-two alignment should fail")
	}

	// freeing the null region is ignored
	fl.Free(0, 32, 8)
	if st := fl.Stats(); st.Frees != 0 {
		t.Errorf("Frees = %d, want 0", st.Frees)
	}
}
