package marshal

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/chain-abi/chain"
	"github.com/wippyai/chain-abi/errors"
	"github.com/wippyai/chain-abi/foreign"
	"github.com/wippyai/chain-abi/record"
)

// DefaultMaxDepth is the node limit Encode and Decode apply by default.
const DefaultMaxDepth = 1 << 20

// Heap is the record store a Marshaller reads and writes.
// *foreign.Heap implements it.
type Heap interface {
	Allocate() (foreign.Ptr, error)
	Release(p foreign.Ptr) error
	ReadAt(p foreign.Ptr) (foreign.Record, error)
	WriteAt(p foreign.Ptr, r foreign.Record) error
}

// Options configures a Marshaller.
type Options struct {
	// Logger receives encode, decode and rollback events. Nil means no-op.
	Logger *zap.Logger

	// MaxDepth bounds the length of chains Encode will write and Decode will
	// read. ReleaseChain is not bounded by it, so any chain the heap holds
	// can be freed in full. 0 means unlimited.
	MaxDepth int

	// DetectCycles makes Decode and ReleaseChain fail on a revisited address
	// instead of walking forever.
	DetectCycles bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		MaxDepth:     DefaultMaxDepth,
		DetectCycles: true,
	}
}

// Marshaller converts chains between their owned and foreign forms.
type Marshaller struct {
	heap         Heap
	logger       *zap.Logger
	maxDepth     int
	detectCycles bool
}

// New creates a Marshaller over heap. A nil opts uses DefaultOptions.
func New(heap Heap, opts *Options) *Marshaller {
	if opts == nil {
		opts = DefaultOptions()
	}
	m := &Marshaller{
		heap:         heap,
		logger:       opts.Logger,
		maxDepth:     opts.MaxDepth,
		detectCycles: opts.DetectCycles,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.maxDepth < 0 {
		m.maxDepth = 0
	}
	return m
}

// Encode writes c into the heap as a fresh foreign chain and returns its
// head. The empty chain encodes to foreign.Null without allocating.
// The caller owns the returned chain and must release it with ReleaseChain.
func (m *Marshaller) Encode(c chain.Chain) (foreign.Ptr, error) {
	if c.IsEmpty() {
		return foreign.Null, nil
	}
	if m.heap == nil {
		return foreign.Null, errors.NotInitialized(errors.PhaseEncode, "heap")
	}

	allocs := newAllocationList()
	defer allocs.release()

	head, err := m.encode(c, 0, allocs)
	if err != nil {
		allocs.rollback(m.heap, m.logger)
		return foreign.Null, err
	}
	m.logger.Debug("chain encoded", zap.Stringer("head", head), zap.Int("nodes", len(allocs.ptrs)))
	return head, nil
}

func (m *Marshaller) encode(c chain.Chain, index int, allocs *allocationList) (foreign.Ptr, error) {
	node, ok := c.Node()
	if !ok {
		return foreign.Null, nil
	}
	if err := m.checkDepth(errors.PhaseEncode, index); err != nil {
		return foreign.Null, err
	}

	next, err := m.encode(node.Next, index+1, allocs)
	if err != nil {
		return foreign.Null, err
	}

	p, err := m.heap.Allocate()
	if err != nil {
		return foreign.Null, atNode(errors.PhaseEncode, index, err, "allocate record")
	}
	allocs.add(p)

	if err := m.heap.WriteAt(p, record.Reslot(node, next)); err != nil {
		return foreign.Null, atNode(errors.PhaseEncode, index, err, "write record")
	}
	return p, nil
}

// Decode reads the foreign chain at head and returns its owned form.
// foreign.Null decodes to the empty chain without touching the heap.
// The foreign chain is left unchanged.
func (m *Marshaller) Decode(head foreign.Ptr) (chain.Chain, error) {
	if head.IsNull() {
		return chain.Empty(), nil
	}
	if m.heap == nil {
		return chain.Empty(), errors.NotInitialized(errors.PhaseDecode, "heap")
	}

	c, err := m.decode(head, 0, m.newVisited())
	if err != nil {
		m.logger.Debug("decode failed", zap.Stringer("head", head), zap.Error(err))
		return chain.Empty(), err
	}
	return c, nil
}

func (m *Marshaller) decode(p foreign.Ptr, index int, visited map[foreign.Ptr]struct{}) (chain.Chain, error) {
	if p.IsNull() {
		return chain.Empty(), nil
	}
	if err := m.checkDepth(errors.PhaseDecode, index); err != nil {
		return chain.Empty(), err
	}
	if err := visit(errors.PhaseDecode, p, index, visited); err != nil {
		return chain.Empty(), err
	}

	r, err := m.heap.ReadAt(p)
	if err != nil {
		return chain.Empty(), atNode(errors.PhaseDecode, index, err, "read record")
	}
	tail, err := m.decode(r.Next, index+1, visited)
	if err != nil {
		return chain.Empty(), err
	}
	return chain.FromRecord(record.Reslot(r, tail)), nil
}

// ReleaseChain frees every record from head to the end of the chain and
// returns how many it freed. Each record is freed after its successor
// address has been read. On error the records already freed stay freed.
func (m *Marshaller) ReleaseChain(head foreign.Ptr) (int, error) {
	if head.IsNull() {
		return 0, nil
	}
	if m.heap == nil {
		return 0, errors.NotInitialized(errors.PhaseRelease, "heap")
	}

	n, err := m.release(head, 0, m.newVisited())
	if err != nil {
		m.logger.Warn("release stopped early", zap.Stringer("head", head), zap.Int("released", n), zap.Error(err))
		return n, err
	}
	m.logger.Debug("chain released", zap.Stringer("head", head), zap.Int("nodes", n))
	return n, nil
}

func (m *Marshaller) release(p foreign.Ptr, index int, visited map[foreign.Ptr]struct{}) (int, error) {
	if p.IsNull() {
		return 0, nil
	}
	if err := visit(errors.PhaseRelease, p, index, visited); err != nil {
		return 0, err
	}

	r, err := m.heap.ReadAt(p)
	if err != nil {
		return 0, atNode(errors.PhaseRelease, index, err, "read record")
	}
	if err := m.heap.Release(p); err != nil {
		return 0, atNode(errors.PhaseRelease, index, err, "release record")
	}
	n, err := m.release(r.Next, index+1, visited)
	return n + 1, err
}

func (m *Marshaller) newVisited() map[foreign.Ptr]struct{} {
	if !m.detectCycles {
		return nil
	}
	return make(map[foreign.Ptr]struct{})
}

func (m *Marshaller) checkDepth(phase errors.Phase, index int) error {
	if m.maxDepth > 0 && index >= m.maxDepth {
		return errors.DepthExceeded(phase, errors.NodePath(index), m.maxDepth)
	}
	return nil
}

// visit records p as node index, failing if the walk has been there before.
// A nil visited set disables the check.
func visit(phase errors.Phase, p foreign.Ptr, index int, visited map[foreign.Ptr]struct{}) error {
	if visited == nil {
		return nil
	}
	if _, ok := visited[p]; ok {
		return errors.CycleDetected(phase, errors.NodePath(index), uint32(p))
	}
	visited[p] = struct{}{}
	return nil
}

// atNode attributes err to node index, keeping the kind of the underlying
// failure so callers can match it with errors.Is.
func atNode(phase errors.Phase, index int, err error, detail string) error {
	kind := errors.KindInvalidData
	var e *errors.Error
	if stderrors.As(err, &e) {
		kind = e.Kind
	}
	return errors.New(phase, kind).
		Path(errors.NodePath(index)...).
		Cause(err).
		Detail("%s", detail).
		Build()
}

// Encode encodes c into heap with default options.
func Encode(heap Heap, c chain.Chain) (foreign.Ptr, error) {
	return New(heap, nil).Encode(c)
}

// Decode decodes the chain at head with default options.
func Decode(heap Heap, head foreign.Ptr) (chain.Chain, error) {
	return New(heap, nil).Decode(head)
}

// ReleaseChain releases the chain at head with default options.
func ReleaseChain(heap Heap, head foreign.Ptr) (int, error) {
	return New(heap, nil).ReleaseChain(head)
}

var _ Heap = (*foreign.Heap)(nil)
