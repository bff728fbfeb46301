package chain

import (
	"strconv"
	"strings"

	"github.com/wippyai/chain-abi/record"
)

// Point is one coordinate triple.
type Point struct {
	X, Y, Z float64
}

// Chain is an owned chain of points. The zero value is the empty chain.
type Chain struct {
	node *record.Record[Chain]
}

// Empty returns the empty chain.
func Empty() Chain {
	return Chain{}
}

// Cons returns a chain with (x, y, z) in front of tail.
func Cons(x, y, z float64, tail Chain) Chain {
	r := record.Make(x, y, z, tail)
	return Chain{node: &r}
}

// FromRecord returns a chain whose head is r.
func FromRecord(r record.Record[Chain]) Chain {
	return Chain{node: &r}
}

// Of builds a chain holding points in order.
func Of(points ...Point) Chain {
	c := Empty()
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		c = Cons(p.X, p.Y, p.Z, c)
	}
	return c
}

// IsEmpty reports whether the chain has no nodes.
func (c Chain) IsEmpty() bool {
	return c.node == nil
}

// Node returns a copy of the head record.
func (c Chain) Node() (record.Record[Chain], bool) {
	if c.node == nil {
		return record.Record[Chain]{}, false
	}
	return *c.node, true
}

// Point returns the head coordinates.
func (c Chain) Point() (Point, bool) {
	if c.node == nil {
		return Point{}, false
	}
	return Point{X: c.node.X, Y: c.node.Y, Z: c.node.Z}, true
}

// Tail returns the chain after the head. The tail of the empty chain is empty.
func (c Chain) Tail() Chain {
	if c.node == nil {
		return Chain{}
	}
	return c.node.Next
}

// Len returns the number of nodes.
func (c Chain) Len() int {
	n := 0
	for cur := c; cur.node != nil; cur = cur.node.Next {
		n++
	}
	return n
}

// Points returns the coordinates of every node in order.
func (c Chain) Points() []Point {
	points := make([]Point, 0, c.Len())
	for cur := c; cur.node != nil; cur = cur.node.Next {
		points = append(points, Point{X: cur.node.X, Y: cur.node.Y, Z: cur.node.Z})
	}
	return points
}

// Equal reports whether both chains have the same length and bit-identical
// coordinates at every position.
func (c Chain) Equal(other Chain) bool {
	a, b := c, other
	for a.node != nil && b.node != nil {
		if a.node != b.node && !record.SameFields(*a.node, *b.node) {
			return false
		}
		if a.node == b.node {
			return true
		}
		a, b = a.node.Next, b.node.Next
	}
	return a.node == nil && b.node == nil
}

func (c Chain) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for cur := c; cur.node != nil; cur = cur.node.Next {
		if cur != c {
			sb.WriteString(" -> ")
		}
		sb.WriteByte('(')
		for i, f := range cur.node.Fields() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(']')
	return sb.String()
}
