package chain

import (
	"math"
	"math/rand"
	"reflect"
)

// Random returns a chain whose length is geometric: before each node it
// stops with probability stop. stop must be in (0, 1]; values outside that
// range are clamped so that generation always terminates.
func Random(r *rand.Rand, stop float64) Chain {
	if !(stop > 0) {
		stop = 0.01
	}
	if stop > 1 {
		stop = 1
	}
	var points []Point
	for r.Float64() >= stop {
		points = append(points, Point{X: randomFloat(r), Y: randomFloat(r), Z: randomFloat(r)})
	}
	return Of(points...)
}

// randomFloat mixes ordinary values with the bit patterns that have to
// survive a round trip unchanged.
func randomFloat(r *rand.Rand) float64 {
	switch r.Intn(16) {
	case 0:
		return math.Float64frombits(0x7ff0_0000_0000_0000 | r.Uint64()&0x000f_ffff_ffff_ffff | 1)
	case 1:
		return math.Copysign(0, -1)
	case 2:
		return math.Inf(1 - 2*r.Intn(2))
	case 3:
		return math.Float64frombits(r.Uint64() & 0x000f_ffff_ffff_ffff) // subnormal
	case 4:
		return math.Float64frombits(r.Uint64())
	default:
		return (r.Float64() - 0.5) * math.Pow(10, float64(r.Intn(20)-10))
	}
}

// Generate implements quick.Generator. size bounds the expected length.
func (Chain) Generate(r *rand.Rand, size int) reflect.Value {
	if size < 1 {
		size = 1
	}
	return reflect.ValueOf(Random(r, 1/float64(size+1)))
}
