package foreign

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
)

// Heap allocates, reads, writes and releases foreign records in one memory.
type Heap struct {
	mem      chainabi.Memory
	alloc    chainabi.Allocator
	live     *table
	logger   *zap.Logger
	allocs   atomic.Uint64
	releases atomic.Uint64
	reads    atomic.Uint64
	writes   atomic.Uint64
}

// Option configures a Heap.
type Option func(*Heap)

// WithLogger sets the heap logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Heap) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHeap creates a heap over mem that obtains record storage from alloc.
func NewHeap(mem chainabi.Memory, alloc chainabi.Allocator, opts ...Option) *Heap {
	h := &Heap{
		mem:    mem,
		alloc:  alloc,
		live:   newTable(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Memory returns the memory the heap writes records into.
func (h *Heap) Memory() chainabi.Memory {
	return h.mem
}

// Allocate reserves storage for one record and zeroes it.
func (h *Heap) Allocate() (Ptr, error) {
	if h.mem == nil || h.alloc == nil {
		return Null, errors.NotInitialized(errors.PhaseMemory, "heap")
	}

	size, align := node.layout.Size, node.layout.Align
	addr, err := h.alloc.Alloc(size, align)
	if err != nil {
		return Null, errors.AllocationFailed(errors.PhaseMemory, size, align, err)
	}
	p := Ptr(addr)
	if p == Null || addr%align != 0 {
		if p != Null {
			h.alloc.Free(addr, size, align)
		}
		return Null, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(addr).
			Detail("allocator returned unusable address 0x%x", addr).
			Build()
	}
	if !h.live.insert(p) {
		return Null, errors.InvalidAddress(errors.PhaseMemory, addr, "allocator returned a live record")
	}
	if err := h.mem.Write(addr, make([]byte, size)); err != nil {
		h.live.remove(p)
		h.alloc.Free(addr, size, align)
		return Null, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "zero record")
	}

	h.allocs.Add(1)
	h.logger.Debug("record allocated", zap.Stringer("ptr", p))
	h.live.notify(Event{Ptr: p, Type: EventAllocated})
	return p, nil
}

// Release frees the record at p. Releasing an address that is not live is
// an error and leaves the allocator untouched.
func (h *Heap) Release(p Ptr) error {
	if !h.live.remove(p) {
		h.logger.Warn("release of invalid address", zap.Stringer("ptr", p))
		return errors.InvalidAddress(errors.PhaseRelease, uint32(p), "not a live record")
	}
	h.alloc.Free(uint32(p), node.layout.Size, node.layout.Align)

	h.releases.Add(1)
	h.logger.Debug("record released", zap.Stringer("ptr", p))
	h.live.notify(Event{Ptr: p, Type: EventReleased})
	return nil
}

// ReadAt reads the record at p.
func (h *Heap) ReadAt(p Ptr) (Record, error) {
	buf, err := h.RawAt(p)
	if err != nil {
		return Record{}, err
	}
	h.reads.Add(1)
	return unmarshalRecord(buf), nil
}

// RawAt returns the bytes of the record at p in the foreign layout.
func (h *Heap) RawAt(p Ptr) ([]byte, error) {
	if err := h.check(p); err != nil {
		return nil, err
	}
	buf, err := h.mem.Read(uint32(p), node.layout.Size)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read record")
	}
	return buf, nil
}

// WriteAt stores r at p.
func (h *Heap) WriteAt(p Ptr, r Record) error {
	if err := h.check(p); err != nil {
		return err
	}
	if err := h.mem.Write(uint32(p), marshalRecord(r)); err != nil {
		return errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write record")
	}
	h.writes.Add(1)
	return nil
}

func (h *Heap) check(p Ptr) error {
	if p == Null {
		return errors.InvalidAddress(errors.PhaseMemory, 0, "null address")
	}
	if !h.live.contains(p) {
		h.logger.Warn("access to invalid address", zap.Stringer("ptr", p))
		return errors.InvalidAddress(errors.PhaseMemory, uint32(p), "not a live record")
	}
	return nil
}

// IsLive reports whether p is an allocated, unreleased record.
func (h *Heap) IsLive(p Ptr) bool {
	return h.live.contains(p)
}

// Live returns the number of allocated, unreleased records.
func (h *Heap) Live() int {
	return h.live.len()
}

// LivePtrs returns the live addresses in ascending order.
func (h *Heap) LivePtrs() []Ptr {
	ptrs := h.live.snapshot()
	sort.Slice(ptrs, func(i, j int) bool { return ptrs[i] < ptrs[j] })
	return ptrs
}

// Subscribe adds an observer for lifecycle events.
func (h *Heap) Subscribe(o Observer) {
	h.live.subscribe(o)
}

// Unsubscribe removes an observer.
func (h *Heap) Unsubscribe(o Observer) {
	h.live.unsubscribe(o)
}

// Stats counts heap operations since creation.
type Stats struct {
	Allocations uint64
	Releases    uint64
	Reads       uint64
	Writes      uint64
}

// Stats returns a snapshot of the operation counters.
func (h *Heap) Stats() Stats {
	return Stats{
		Allocations: h.allocs.Load(),
		Releases:    h.releases.Load(),
		Reads:       h.reads.Load(),
		Writes:      h.writes.Load(),
	}
}

// Close releases every live record and returns how many it freed.
func (h *Heap) Close() (int, error) {
	var released int
	for _, p := range h.live.snapshot() {
		if err := h.Release(p); err != nil {
			return released, err
		}
		released++
	}
	if released > 0 {
		h.logger.Info("heap closed with live records", zap.Int("released", released))
	}
	return released, nil
}
