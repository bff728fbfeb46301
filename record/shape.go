package record

import (
	"reflect"
	"strings"
	"sync"

	"go.bytecodealliance.org/wit"
)

// FieldKind tells value fields from the continuation slot.
type FieldKind uint8

const (
	FieldFloat FieldKind = iota
	FieldSlot
)

func (k FieldKind) String() string {
	switch k {
	case FieldFloat:
		return "f64"
	case FieldSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// Field is one derived field of a record instantiation.
type Field struct {
	Name   string // wire name from the wit tag
	GoName string
	Index  int
	Kind   FieldKind
}

// Shape is the derived field list of one Record instantiation.
type Shape struct {
	Type   reflect.Type
	Fields []Field
}

var shapes sync.Map // reflect.Type -> Shape

// Describe derives the shape of Record[S]. The result is cached per type.
func Describe[S any]() Shape {
	rt := reflect.TypeFor[Record[S]]()
	if cached, ok := shapes.Load(rt); ok {
		return cached.(Shape)
	}
	s := derive(rt, reflect.TypeFor[S]())
	shapes.Store(rt, s)
	return s
}

func derive(rt, slot reflect.Type) Shape {
	s := Shape{Type: rt, Fields: make([]Field, 0, rt.NumField())}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("wit")
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		kind := FieldFloat
		if sf.Type == slot && sf.Type.Kind() != reflect.Float64 {
			kind = FieldSlot
		}
		s.Fields = append(s.Fields, Field{
			Name:   name,
			GoName: sf.Name,
			Index:  i,
			Kind:   kind,
		})
	}
	return s
}

// Names returns the wire names in declaration order.
func (s Shape) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Values returns the coordinate fields in declaration order.
func (s Shape) Values() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind == FieldFloat {
			out = append(out, f)
		}
	}
	return out
}

// Slot returns the continuation field.
func (s Shape) Slot() (Field, bool) {
	for _, f := range s.Fields {
		if f.Kind == FieldSlot {
			return f, true
		}
	}
	return Field{}, false
}

// TypeDef derives the WIT record for this shape, storing the continuation
// as slot.
func (s Shape) TypeDef(name string, slot wit.Type) *wit.TypeDef {
	fields := make([]wit.Field, len(s.Fields))
	for i, f := range s.Fields {
		var typ wit.Type = wit.F64{}
		if f.Kind == FieldSlot {
			typ = slot
		}
		fields[i] = wit.Field{Name: f.Name, Type: typ}
	}
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}
