package engine

import (
	"context"
	stderrors "errors"
	"testing"

	chainabi "github.com/wippyai/chain-abi"
	"github.com/wippyai/chain-abi/errors"
)

func newTestGuest(t *testing.T, cfg *GuestConfig) *Guest {
	t.Helper()
	ctx := context.Background()
	g, err := NewGuest(ctx, cfg)
	if err != nil {
		t.Fatalf("NewGuest: %v", err)
	}
	t.Cleanup(func() { _ = g.Close(ctx) })
	return g
}

func TestGuest_ReadWrite(t *testing.T) {
	g := newTestGuest(t, nil)
	mem := g.Memory()

	if mem.Size() != chainabi.PageSize {
		t.Fatalf("Size = %d, want one page", mem.Size())
	}
	if err := mem.WriteU64(64, 0x1122334455667788); err != nil {
		t.Fatalf("WriteU64: %v", err)
	}
	if err := mem.WriteU32(72, 0xcafebabe); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	if err := mem.WriteU16(76, 0xbeef); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	if err := mem.WriteU8(78, 0x7f); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}

	if v, _ := mem.ReadU64(64); v != 0x1122334455667788 {
		t.Errorf("ReadU64 = %x", v)
	}
	if v, _ := mem.ReadU32(72); v != 0xcafebabe {
		t.Errorf("ReadU32 = %x", v)
	}
	if v, _ := mem.ReadU16(76); v != 0xbeef {
		t.Errorf("ReadU16 = %x", v)
	}
	if v, _ := mem.ReadU8(78); v != 0x7f {
		t.Errorf("ReadU8 = %x", v)
	}

	raw, err := mem.Read(64, 8)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if raw[0] != 0x88 || raw[7] != 0x11 {
		t.Errorf("Read = % x, want little-endian", raw)
	}
}

func TestGuest_OutOfBounds(t *testing.T) {
	g := newTestGuest(t, nil)
	mem := g.Memory()

	_, err := mem.ReadU64(chainabi.PageSize - 4)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindOutOfBounds {
		t.Errorf("ReadU64 err = %v, want out_of_bounds", err)
	}
	if err := mem.Write(chainabi.PageSize, []byte{1}); err == nil {
		t.Error("expected error for out of bounds write")
	}
}

func TestGuest_AllocatorGrowsMemory(t *testing.T) {
	g := newTestGuest(t, &GuestConfig{InitialPages: 1, MemoryLimitPages: 4})

	for i := 0; i < 4000; i++ {
		if _, err := g.Allocator().Alloc(32, 8); err != nil {
			t.Fatalf("Alloc %d: %v", i, err)
		}
	}
	if g.Memory().Size() < 2*chainabi.PageSize {
		t.Errorf("guest memory did not grow: %d", g.Memory().Size())
	}
}

func TestGuest_MemoryLimit(t *testing.T) {
	g := newTestGuest(t, &GuestConfig{InitialPages: 1, MemoryLimitPages: 1})

	if _, ok := g.Memory().Grow(1); ok {
		t.Error("Grow beyond limit should fail")
	}
}

func TestNewGuest_InvalidConfig(t *testing.T) {
	_, err := NewGuest(context.Background(), &GuestConfig{InitialPages: 8, MemoryLimitPages: 2})
	if err == nil {
		t.Fatal("expected error when initial pages exceed limit")
	}
}

func TestGuest_CloseTwice(t *testing.T) {
	ctx := context.Background()
	g, err := NewGuest(ctx, nil)
	if err != nil {
		t.Fatalf("NewGuest: %v", err)
	}
	if err := g.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := g.Close(ctx); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWrapMemory_Nil(t *testing.T) {
	if WrapMemory(nil) != nil {
		t.Error("expected nil for nil memory")
	}
}
