package layout

import (
	stderrors "errors"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/chain-abi/errors"
)

func TestCalculatePrimitives(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.U32{}, "u32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := c.Calculate(tc.typ)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateUnsupported(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ  wit.Type
		name string
	}{
		{wit.String{}, "string"},
		{wit.U8{}, "u8"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, "list"},
		{&wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.F64{}}}}, "tuple"},
		{&wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "label", Type: wit.String{}}}}}, "record field"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Calculate(tc.typ)
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Phase != errors.PhaseLayout || e.Kind != errors.KindUnsupported {
				t.Errorf("err = %v, want layout unsupported", err)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info, err := c.Calculate(&wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{}}})
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if info.Size != 0 || info.Align != 1 {
			t.Errorf("layout: got %d/%d, want 0/1", info.Size, info.Align)
		}
	})

	t.Run("mixed_alignment", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "a", Type: wit.U32{}},
				{Name: "b", Type: wit.F64{}},
				{Name: "c", Type: wit.U32{}},
			},
		}}
		info, err := c.Calculate(typedef)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}

		want := map[string]uint32{"a": 0, "b": 8, "c": 16}
		for name, off := range want {
			if got, _ := info.Offset(name); got != off {
				t.Errorf("field %s offset: got %d, want %d", name, got, off)
			}
		}
		if info.Size != 24 {
			t.Errorf("size: got %d, want 24", info.Size)
		}
		if info.Align != 8 {
			t.Errorf("align: got %d, want 8", info.Align)
		}
	})

	// Three f64 coordinates followed by a 32-bit address: the chain node.
	t.Run("node", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "x", Type: wit.F64{}},
				{Name: "y", Type: wit.F64{}},
				{Name: "z", Type: wit.F64{}},
				{Name: "next", Type: wit.U32{}},
			},
		}}
		info, err := c.Calculate(typedef)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}

		if info.Size != 32 {
			t.Errorf("size: got %d, want 32", info.Size)
		}
		if info.Align != 8 {
			t.Errorf("align: got %d, want 8", info.Align)
		}
		wantOrder := []string{"x", "y", "z", "next"}
		for i, name := range wantOrder {
			if info.FieldOrder[i] != name {
				t.Errorf("order[%d]: got %s, want %s", i, info.FieldOrder[i], name)
			}
			if off, _ := info.Offset(name); off != uint32(i*8) {
				t.Errorf("field %s offset: got %d, want %d", name, off, i*8)
			}
		}
	})

	t.Run("nested", func(t *testing.T) {
		inner := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "v", Type: wit.U32{}}}}}
		outer := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "a", Type: wit.U32{}},
			{Name: "in", Type: inner},
		}}}
		info, err := c.Calculate(outer)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if off, _ := info.Offset("in"); off != 4 || info.Size != 8 {
			t.Errorf("in offset %d, size %d; want 4, 8", off, info.Size)
		}
	})

	t.Run("cached", func(t *testing.T) {
		typedef := &wit.TypeDef{Kind: &wit.Record{
			Fields: []wit.Field{{Name: "v", Type: wit.F64{}}},
		}}
		first, _ := c.Calculate(typedef)
		second, _ := c.Calculate(typedef)
		if first.Size != second.Size || first.Align != second.Align {
			t.Errorf("cached layout differs: %+v vs %+v", first, second)
		}
	})
}

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want uint32
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{28, 8, 32},
		{5, 0, 5},
		{5, 1, 5},
	}
	for _, tc := range tests {
		if got := AlignTo(tc.offset, tc.align); got != tc.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tc.offset, tc.align, got, tc.want)
		}
	}
}
