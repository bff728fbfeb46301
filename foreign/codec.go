package foreign

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/layout"
	"github.com/wippyai/chain-abi/record"
)

const (
	valueWidth = 8 // f64
	slotWidth  = 4 // u32 address
)

type fieldPlan struct {
	index  int
	offset uint32
}

// recordPlan maps every derived field to its offset in the foreign layout.
type recordPlan struct {
	values []fieldPlan
	slot   fieldPlan
}

// compilePlan checks that info lays out exactly the fields of shape, in the
// same order, and records where each one lives.
func compilePlan(shape record.Shape, info layout.Info) (recordPlan, error) {
	if names := shape.Names(); !slices.Equal(names, info.FieldOrder) {
		return recordPlan{}, errors.InvalidData(errors.PhaseLayout, nil,
			fmt.Sprintf("field order %v does not match layout order %v", names, info.FieldOrder))
	}
	slot, ok := shape.Slot()
	if !ok {
		return recordPlan{}, errors.InvalidData(errors.PhaseLayout, nil, "record has no continuation slot")
	}

	var p recordPlan
	for _, f := range shape.Values() {
		fp, err := planField(f, info, valueWidth)
		if err != nil {
			return recordPlan{}, err
		}
		p.values = append(p.values, fp)
	}
	fp, err := planField(slot, info, slotWidth)
	if err != nil {
		return recordPlan{}, err
	}
	p.slot = fp
	return p, nil
}

func planField(f record.Field, info layout.Info, width uint32) (fieldPlan, error) {
	off, ok := info.Offset(f.Name)
	if !ok {
		return fieldPlan{}, errors.InvalidData(errors.PhaseLayout, []string{f.Name}, "field missing from layout")
	}
	if uint64(off)+uint64(width) > uint64(info.Size) {
		return fieldPlan{}, errors.InvalidData(errors.PhaseLayout, []string{f.Name},
			fmt.Sprintf("%d bytes at offset %d overrun a %d byte record", width, off, info.Size))
	}
	return fieldPlan{index: f.Index, offset: off}, nil
}

// marshalRecord renders r in the foreign layout. Padding bytes are zero.
func marshalRecord(r Record) []byte {
	buf := make([]byte, node.layout.Size)
	rv := reflect.ValueOf(r)
	for _, f := range node.plan.values {
		binary.LittleEndian.PutUint64(buf[f.offset:], math.Float64bits(rv.Field(f.index).Float()))
	}
	slot := node.plan.slot
	binary.LittleEndian.PutUint32(buf[slot.offset:], uint32(rv.Field(slot.index).Uint()))
	return buf
}

// unmarshalRecord reads a record from its foreign layout.
func unmarshalRecord(buf []byte) Record {
	var r Record
	rv := reflect.ValueOf(&r).Elem()
	for _, f := range node.plan.values {
		rv.Field(f.index).SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(buf[f.offset:])))
	}
	slot := node.plan.slot
	rv.Field(slot.index).SetUint(uint64(binary.LittleEndian.Uint32(buf[slot.offset:])))
	return r
}
