// Package chain provides the owned, pointer-free form of a point chain.
//
// A Chain is either absent or a node holding three float64 coordinates and
// the Chain that follows it. Chains are immutable once built and may be
// shared freely between goroutines.
//
//	c := chain.Of(chain.Point{1, 2, 3}, chain.Point{4, 5, 6})
//	c.Len()   // 2
//	c.Tail()  // chain of (4, 5, 6)
//
// Equality compares coordinates bit-for-bit, so a NaN with a given payload
// equals itself and 0 differs from -0.
package chain
