package layout

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/chain-abi/errors"
)

// Info describes the in-memory layout of a type.
type Info struct {
	FieldOffs  map[string]uint32
	FieldOrder []string
	Size       uint32
	Align      uint32
}

// Offset returns the offset of a record field and whether it exists.
func (i Info) Offset(name string) (uint32, bool) {
	off, ok := i.FieldOffs[name]
	return off, ok
}

// AlignTo rounds offset up to a multiple of align (a power of two).
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Calculator computes layouts for the types a chain record can hold:
// f64 coordinates, a u32 address and records of those.
type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

// Calculate returns the layout of t, or an unsupported error for types a
// record cannot hold.
func (c *Calculator) Calculate(t wit.Type) (Info, error) {
	switch typ := t.(type) {
	case wit.U32:
		return Info{Size: 4, Align: 4}, nil
	case wit.F64:
		return Info{Size: 8, Align: 8}, nil
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{}, errors.Unsupported(errors.PhaseLayout, fmt.Sprintf("wit type %T", t))
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) (Info, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	rec, ok := t.Kind.(*wit.Record)
	if !ok {
		return Info{}, errors.Unsupported(errors.PhaseLayout, fmt.Sprintf("typedef kind %T", t.Kind))
	}
	info, err := c.calculateRecord(rec)
	if err != nil {
		return Info{}, err
	}

	c.cache[t] = info
	return info, nil
}

func (c *Calculator) calculateRecord(r *wit.Record) (Info, error) {
	fieldOffs := make(map[string]uint32, len(r.Fields))
	order := make([]string, 0, len(r.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range r.Fields {
		fieldLayout, err := c.Calculate(field.Type)
		if err != nil {
			return Info{}, errors.New(errors.PhaseLayout, errors.KindUnsupported).
				Path(field.Name).
				Cause(err).
				Detail("field type %T", field.Type).
				Build()
		}

		offset = AlignTo(offset, fieldLayout.Align)
		fieldOffs[field.Name] = offset
		order = append(order, field.Name)

		if fieldLayout.Align > maxAlign {
			maxAlign = fieldLayout.Align
		}

		offset += fieldLayout.Size
	}

	return Info{
		Size:       AlignTo(offset, maxAlign),
		Align:      maxAlign,
		FieldOffs:  fieldOffs,
		FieldOrder: order,
	}, nil
}
