package engine

import (
	"github.com/tetratelabs/wazero/api"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
)

// WazeroMemory wraps wazero memory to implement chainabi.Memory
type WazeroMemory struct {
	mem api.Memory
}

// WrapMemory wraps a wazero api.Memory. It returns nil for a nil memory.
func WrapMemory(mem api.Memory) *WazeroMemory {
	if mem == nil {
		return nil
	}
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) oob(offset, length uint32) error {
	return errors.OutOfBounds(errors.PhaseMemory, offset, length, m.mem.Size())
}

// Read returns a copy of length bytes at offset. The copy stays valid
// after the memory grows.
func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.oob(offset, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return m.oob(offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, m.oob(offset, 1)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, m.oob(offset, 2)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, m.oob(offset, 4)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, m.oob(offset, 8)
	}
	return v, nil
}

func (m *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return m.oob(offset, 1)
	}
	return nil
}

func (m *WazeroMemory) WriteU16(offset uint32, value uint16) error {
	if !m.mem.WriteUint16Le(offset, value) {
		return m.oob(offset, 2)
	}
	return nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return m.oob(offset, 4)
	}
	return nil
}

func (m *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return m.oob(offset, 8)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow extends the guest memory by deltaPages pages.
func (m *WazeroMemory) Grow(deltaPages uint32) (uint32, bool) {
	return m.mem.Grow(deltaPages)
}

// Compile-time check that WazeroMemory implements the memory interfaces
var _ chainabi.Memory = (*WazeroMemory)(nil)
var _ chainabi.MemorySizer = (*WazeroMemory)(nil)
var _ chainabi.Grower = (*WazeroMemory)(nil)
