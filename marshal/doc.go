// Package marshal converts point chains between the owned form in package
// chain and the pointer-linked foreign form held in a foreign.Heap.
//
// Encode allocates one foreign record per node, tail first, and returns the
// head address. Decode reads a foreign chain and rebuilds the owned value
// without allocating or freeing foreign memory. ReleaseChain frees every
// record reachable from a head address.
//
//	m := marshal.New(heap, nil)
//	head, err := m.Encode(chain.Of(chain.Point{1, 2, 3}))
//	...
//	c, err := m.Decode(head)
//	n, err := m.ReleaseChain(head)
//
// A failed Encode releases the records it allocated before returning, so the
// heap is left as it was before the call.
package marshal
