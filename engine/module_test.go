package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	chainabi "github.com/wippyai/chain-abi"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

func TestMemoryModule_OnePage(t *testing.T) {
	if got := memoryModule(1); !bytes.Equal(got, memoryWASM) {
		t.Errorf("memoryModule(1) = % x\nwant % x", got, memoryWASM)
	}
}

func TestMemoryModule_Compiles(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	for _, pages := range []uint32{1, 127, 128, 300} {
		compiled, err := rt.CompileModule(ctx, memoryModule(pages))
		if err != nil {
			t.Fatalf("pages=%d: compile: %v", pages, err)
		}
		mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
		if err != nil {
			t.Fatalf("pages=%d: instantiate: %v", pages, err)
		}
		if size := mod.ExportedMemory(MemoryExport).Size(); size != pages*chainabi.PageSize {
			t.Errorf("pages=%d: size = %d", pages, size)
		}
		_ = mod.Close(ctx)
	}
}
