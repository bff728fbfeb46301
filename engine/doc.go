// Package engine provides linear memory backed by a wazero WebAssembly
// instance.
//
// A Guest instantiates a minimal core module whose only content is one
// exported memory, and exposes that memory through the chainabi.Memory
// interface together with a host-side free-list allocator. Records written
// through a Guest live in real WebAssembly linear memory, so a component
// sharing that memory sees the exact canonical ABI bytes.
//
// # Usage
//
//	g, err := engine.NewGuest(ctx, &engine.GuestConfig{InitialPages: 1})
//	if err != nil {
//	    return err
//	}
//	defer g.Close(ctx)
//
//	heap := foreign.NewHeap(g.Memory(), g.Allocator())
//
// # Memory Limits
//
// GuestConfig.MemoryLimitPages caps growth (64 KiB pages). Linear memory
// never shrinks; freed records are reused by the allocator.
//
// # Thread Safety
//
// A Guest's memory is not synchronized against concurrent Grow calls from
// other goroutines; use one Guest per goroutine or guard access externally.
package engine
