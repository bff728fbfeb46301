package engine

import (
	"github.com/wippyai/chain-abi/engine/internal/binary"
)

const (
	wasmMagic   uint32 = 0x6D736100 // \0asm
	wasmVersion uint32 = 0x01

	sectionMemory byte = 5
	sectionExport byte = 7

	kindMemory byte = 2
)

// memoryModule encodes a core module with one memory of initial pages and
// no declared maximum, exported as MemoryExport. The runtime config bounds
// growth.
func memoryModule(initial uint32) []byte {
	w := binary.NewWriter()
	w.WriteU32LE(wasmMagic)
	w.WriteU32LE(wasmVersion)

	mems := binary.NewWriter()
	mems.WriteU32(1)
	writeLimits(mems, initial)
	writeSection(w, sectionMemory, mems.Bytes())

	exports := binary.NewWriter()
	exports.WriteU32(1)
	exports.WriteName(MemoryExport)
	exports.Byte(kindMemory)
	exports.WriteU32(0)
	writeSection(w, sectionExport, exports.Bytes())

	return w.Bytes()
}

func writeSection(w *binary.Writer, id byte, data []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(data)
}

func writeLimits(w *binary.Writer, initial uint32) {
	w.Byte(0) // no max
	w.WriteU32(initial)
}
