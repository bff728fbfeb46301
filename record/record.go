package record

import "math"

// Record is a node of a chain: three coordinates and the continuation slot S.
type Record[S any] struct {
	X    float64 `wit:"x"`
	Y    float64 `wit:"y"`
	Z    float64 `wit:"z"`
	Next S       `wit:"next"`
}

// Make builds a record from its coordinates and continuation.
func Make[S any](x, y, z float64, next S) Record[S] {
	return Record[S]{X: x, Y: y, Z: z, Next: next}
}

// Reslot returns a record with the same coordinates and a continuation of a
// different representation.
func Reslot[S, T any](r Record[S], next T) Record[T] {
	return Record[T]{X: r.X, Y: r.Y, Z: r.Z, Next: next}
}

// Fields returns the coordinates in declaration order.
func (r Record[S]) Fields() [3]float64 {
	return [3]float64{r.X, r.Y, r.Z}
}

// SameFields reports whether two records carry bit-identical coordinates,
// whatever their slot representations. NaN payloads compare equal to
// themselves and +0 differs from -0.
func SameFields[S, T any](a Record[S], b Record[T]) bool {
	af, bf := a.Fields(), b.Fields()
	for i := range af {
		if math.Float64bits(af[i]) != math.Float64bits(bf[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b have the same coordinates and slotEq
// accepts their continuations.
func Equal[S any](a, b Record[S], slotEq func(S, S) bool) bool {
	return SameFields(a, b) && slotEq(a.Next, b.Next)
}
