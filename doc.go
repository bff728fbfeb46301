// Package chainabi converts linked chains of (x, y, z) records between a
// foreign, address-based layout in linear memory and an owned Go value.
//
// The same three-field record is exchanged with native or WebAssembly code
// as a fixed-size struct whose last slot holds the address of the next
// record, and manipulated in Go as an immutable recursive value with no
// addresses at all.
//
// # Architecture Overview
//
//	chainabi/            Root package with core Memory and Allocator interfaces
//	├── record/          Generic record declaration shared by both models
//	├── layout/          Canonical ABI size/alignment calculation
//	├── foreign/         Address-based records on a Heap (alloc/read/write/release)
//	├── chain/           Owned, pointer-free chain values
//	├── marshal/         Encode/Decode/ReleaseChain between the two models
//	├── linear/          Pure Go linear memory and free-list allocator
//	├── engine/          wazero-backed linear memory
//	├── config/          Environment configuration
//	└── errors/          Structured error types
//
// # Quick Start
//
//	mem := linear.NewBuffer(1, 0)
//	heap := foreign.NewHeap(mem, linear.NewFreeList(mem))
//	defer heap.Close()
//
//	c := chain.Of(chain.Point{1, 2, 3}, chain.Point{4, 5, 6})
//
//	head, err := marshal.Encode(heap, c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer marshal.ReleaseChain(heap, head)
//
//	back, err := marshal.Decode(heap, head)
//	fmt.Println(back.Equal(c)) // true
//
// # Foreign Layout
//
// Each foreign record is the canonical ABI layout of
//
//	record node { x: f64, y: f64, z: f64, next: u32 }
//
// i.e. 32 bytes aligned to 8, with next at offset 24 and address 0 as the
// end-of-chain sentinel.
//
// # Ownership
//
// Encode hands ownership of every allocated record to the caller, who must
// release the chain with ReleaseChain. Decode only borrows the foreign chain.
// Owned chains need no release.
//
// # Thread Safety
//
// Owned chains are immutable and safe to share. A Heap may be used from
// several goroutines, but a single foreign chain must not be released while
// another goroutine reads it.
package chainabi
