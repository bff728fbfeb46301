package foreign

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/layout"
	"github.com/wippyai/chain-abi/record"
)

func nodeInfo() layout.Info {
	return layout.Info{
		Size:       32,
		Align:      8,
		FieldOffs:  map[string]uint32{"x": 0, "y": 8, "z": 16, "next": 24},
		FieldOrder: []string{"x", "y", "z", "next"},
	}
}

func TestDeriveNode(t *testing.T) {
	n, err := deriveNode()
	if err != nil {
		t.Fatalf("deriveNode: %v", err)
	}
	if len(n.plan.values) != 3 {
		t.Fatalf("values = %d, want 3", len(n.plan.values))
	}
	for i, want := range []uint32{0, 8, 16} {
		if got := n.plan.values[i].offset; got != want {
			t.Errorf("value %d offset = %d, want %d", i, got, want)
		}
	}
	if n.plan.slot.offset != 24 || n.plan.slot.index != 3 {
		t.Errorf("slot = %+v, want offset 24 index 3", n.plan.slot)
	}
}

func TestCompilePlan_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape record.Shape
		info  func() layout.Info
		path  []string
	}{
		{
			name:  "order_mismatch",
			shape: record.Describe[Ptr](),
			info: func() layout.Info {
				info := nodeInfo()
				info.FieldOrder = []string{"next", "x", "y", "z"}
				return info
			},
		},
		{
			name:  "no_slot",
			shape: record.Describe[float64](),
			info:  nodeInfo,
		},
		{
			name:  "missing_offset",
			shape: record.Describe[Ptr](),
			info: func() layout.Info {
				info := nodeInfo()
				delete(info.FieldOffs, "y")
				return info
			},
			path: []string{"y"},
		},
		{
			name:  "slot_overrun",
			shape: record.Describe[Ptr](),
			info: func() layout.Info {
				info := nodeInfo()
				info.Size = 26
				return info
			},
			path: []string{"next"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compilePlan(tt.shape, tt.info())
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Phase != errors.PhaseLayout || e.Kind != errors.KindInvalidData {
				t.Errorf("got %s/%s, want layout/invalid_data", e.Phase, e.Kind)
			}
			if len(tt.path) > 0 && (len(e.Path) != 1 || e.Path[0] != tt.path[0]) {
				t.Errorf("Path = %v, want %v", e.Path, tt.path)
			}
		})
	}
}
