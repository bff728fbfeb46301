package linear

import (
	stderrors "errors"
	"sync"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/layout"
)

// ReservedBytes is the low region of memory the allocator never hands out.
const ReservedBytes = 16

var errMemoryLimit = stderrors.New("memory limit reached")

// GrowableMemory is the part of a memory the allocator needs.
type GrowableMemory interface {
	chainabi.MemorySizer
	chainabi.Grower
}

type blockKey struct {
	size  uint32
	align uint32
}

// FreeList is a bump allocator with per-size free lists.
type FreeList struct {
	mem    GrowableMemory
	free   map[blockKey][]uint32
	next   uint64
	inUse  uint64
	allocs uint64
	frees  uint64
	mu     sync.Mutex
}

// NewFreeList creates an allocator over mem.
func NewFreeList(mem GrowableMemory) *FreeList {
	return &FreeList{
		mem:  mem,
		free: make(map[blockKey][]uint32),
		next: ReservedBytes,
	}
}

// Alloc returns the offset of a block of size bytes aligned to align.
func (f *FreeList) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		return 0, errors.InvalidInput(errors.PhaseMemory, "zero-sized allocation")
	}
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseMemory, "alignment must be a power of two")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := blockKey{size: size, align: align}
	if list := f.free[key]; len(list) > 0 {
		ptr := list[len(list)-1]
		f.free[key] = list[:len(list)-1]
		f.allocs++
		f.inUse += uint64(size)
		return ptr, nil
	}

	start := uint64(layout.AlignTo(uint32(f.next), align))
	if f.next > uint64(^uint32(0)) || start < f.next {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align, errMemoryLimit)
	}
	end := start + uint64(size)
	if err := f.ensure(end); err != nil {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align, err)
	}

	f.next = end
	f.allocs++
	f.inUse += uint64(size)
	return uint32(start), nil
}

func (f *FreeList) ensure(end uint64) error {
	if end > uint64(MaxPages)*chainabi.PageSize {
		return errMemoryLimit
	}
	have := uint64(f.mem.Size())
	if end <= have {
		return nil
	}
	need := (end - have + chainabi.PageSize - 1) / chainabi.PageSize
	if _, ok := f.mem.Grow(uint32(need)); !ok {
		return errMemoryLimit
	}
	return nil
}

// Free returns a block to the free list of its size and alignment.
// Offsets inside the reserved region are ignored.
func (f *FreeList) Free(ptr, size, align uint32) {
	if ptr < ReservedBytes || size == 0 {
		return
	}
	if align == 0 {
		align = 1
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := blockKey{size: size, align: align}
	f.free[key] = append(f.free[key], ptr)
	f.frees++
	f.inUse -= uint64(size)
}

// FreeListStats reports allocator counters.
type FreeListStats struct {
	Allocs uint64
	Frees  uint64
	InUse  uint64
	Top    uint64
}

// Stats returns a snapshot of the allocator counters.
func (f *FreeList) Stats() FreeListStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FreeListStats{
		Allocs: f.allocs,
		Frees:  f.frees,
		InUse:  f.inUse,
		Top:    f.next,
	}
}

var _ chainabi.Allocator = (*FreeList)(nil)
