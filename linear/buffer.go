package linear

import (
	"encoding/binary"
	"sync"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
)

// MaxPages is the largest page count addressable with 32-bit offsets.
const MaxPages = 65536

// Buffer is a growable little-endian linear memory held on the Go heap.
type Buffer struct {
	data     []byte
	maxPages uint32
	mu       sync.RWMutex
}

// NewBuffer creates a memory of initialPages pages that may grow up to
// maxPages (0 means MaxPages).
func NewBuffer(initialPages, maxPages uint32) *Buffer {
	if maxPages == 0 || maxPages > MaxPages {
		maxPages = MaxPages
	}
	if initialPages > maxPages {
		initialPages = maxPages
	}
	return &Buffer{
		data:     make([]byte, uint64(initialPages)*chainabi.PageSize),
		maxPages: maxPages,
	}
}

func (b *Buffer) bounds(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(b.data)) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, length, uint32(len(b.data)))
	}
	return nil
}

// Read returns a copy of length bytes at offset.
func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b.data[offset:])
	return out, nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bounds(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.bounds(offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}

func (b *Buffer) ReadU16(offset uint32) (uint16, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.bounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.data[offset:]), nil
}

func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.bounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[offset:]), nil
}

func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.bounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.data[offset:]), nil
}

func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bounds(offset, 1); err != nil {
		return err
	}
	b.data[offset] = value
	return nil
}

func (b *Buffer) WriteU16(offset uint32, value uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bounds(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b.data[offset:], value)
	return nil
}

func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bounds(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[offset:], value)
	return nil
}

func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bounds(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b.data[offset:], value)
	return nil
}

// Size returns the current size in bytes. A full 4 GiB memory reports
// math.MaxUint32.
func (b *Buffer) Size() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if uint64(len(b.data)) > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(len(b.data))
}

// Grow extends the memory by deltaPages zeroed pages.
func (b *Buffer) Grow(deltaPages uint32) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := uint32(uint64(len(b.data)) / chainabi.PageSize)
	if uint64(prev)+uint64(deltaPages) > uint64(b.maxPages) {
		return prev, false
	}
	b.data = append(b.data, make([]byte, uint64(deltaPages)*chainabi.PageSize)...)
	return prev, true
}

// Compile-time checks
var (
	_ chainabi.Memory      = (*Buffer)(nil)
	_ chainabi.MemorySizer = (*Buffer)(nil)
	_ chainabi.Grower      = (*Buffer)(nil)
)
