// Package linear provides a pure Go linear memory and a free-list allocator.
//
// Buffer behaves like a WebAssembly memory: a little-endian byte array
// addressed by 32-bit offsets that grows in 64 KiB pages up to a limit.
// FreeList hands out aligned blocks from any memory that implements
// chainabi.Grower, growing it on demand, and reuses freed blocks of the same
// size and alignment. Offsets below ReservedBytes are never returned, so
// address 0 stays free to act as a null pointer.
//
// Both types are safe for concurrent use.
package linear
