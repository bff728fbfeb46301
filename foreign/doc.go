// Package foreign implements the address-based chain layout.
//
// A foreign record is the canonical ABI layout of
//
//	record node { x: f64, y: f64, z: f64, next: u32 }
//
// derived from record.Record[Ptr]: 32 bytes, 8-byte aligned, little-endian,
// with the address of the following record at offset 24. Address 0 (Null)
// ends a chain.
//
// # Heap
//
// A Heap binds a linear memory and an allocator and hands out one block per
// record:
//
//	heap := foreign.NewHeap(mem, alloc)
//	p, err := heap.Allocate()
//	err = heap.WriteAt(p, foreign.Record{X: 1, Y: 2, Z: 3, Next: foreign.Null})
//	r, err := heap.ReadAt(p)
//	err = heap.Release(p)
//
// The heap tracks which addresses are live. ReadAt, WriteAt and Release on
// an address that was never allocated by the heap, or was already released,
// fail with errors.ErrInvalidAddress and never touch memory.
//
// # Observers
//
// Register observers to follow allocation and release events:
//
//	heap.Subscribe(obs) // obs.OnHeapEvent(foreign.Event{...})
//
// # Memory Management
//
// Records are not garbage collected. Whoever allocates a record must release
// it; Close releases everything still live.
package foreign
