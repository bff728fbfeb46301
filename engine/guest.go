package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/linear"
)

// MemoryExport is the export name of the guest memory.
const MemoryExport = "memory"

// GuestConfig holds configuration for guest creation
type GuestConfig struct {
	// Name is the module name of the instance. Empty means anonymous.
	Name string

	// InitialPages is the starting memory size in 64KB pages. 0 means 1.
	InitialPages uint32

	// MemoryLimitPages sets the maximum memory in pages.
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Guest is a wazero instance that owns one exported linear memory.
type Guest struct {
	runtime wazero.Runtime
	memory  *WazeroMemory
	alloc   *linear.FreeList
}

// NewGuest instantiates a memory-only module.
func NewGuest(ctx context.Context, cfg *GuestConfig) (*Guest, error) {
	var c GuestConfig
	if cfg != nil {
		c = *cfg
	}
	if c.InitialPages == 0 {
		c.InitialPages = 1
	}
	if c.MemoryLimitPages > 0 && c.InitialPages > c.MemoryLimitPages {
		return nil, errors.InvalidInput(errors.PhaseMemory, "initial pages exceed memory limit")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, memoryModule(c.InitialPages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindNotInitialized, err, "compile memory module")
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(c.Name))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindNotInitialized, err, "instantiate memory module")
	}

	mem := WrapMemory(mod.ExportedMemory(MemoryExport))
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseMemory, "guest memory")
	}

	Logger().Debug("guest memory ready",
		zap.String("name", c.Name),
		zap.Uint32("pages", c.InitialPages),
		zap.Uint32("limit_pages", c.MemoryLimitPages))

	return &Guest{
		runtime: rt,
		memory:  mem,
		alloc:   linear.NewFreeList(mem),
	}, nil
}

// Memory returns the guest linear memory.
func (g *Guest) Memory() *WazeroMemory {
	return g.memory
}

// Allocator returns the host-side allocator over the guest memory.
func (g *Guest) Allocator() *linear.FreeList {
	return g.alloc
}

// Close releases the wazero runtime and its memory.
func (g *Guest) Close(ctx context.Context) error {
	if g.runtime == nil {
		return nil
	}
	err := g.runtime.Close(ctx)
	g.runtime = nil
	g.memory = nil
	g.alloc = nil
	return err
}
