package marshal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/chain-abi/foreign"
)

// allocationList records the nodes allocated by one Encode call.
type allocationList struct {
	ptrs []foreign.Ptr
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &allocationList{ptrs: make([]foreign.Ptr, 0, 16)}
	},
}

const maxPooledAllocationCapacity = 1024

func newAllocationList() *allocationList {
	return allocationListPool.Get().(*allocationList)
}

func (al *allocationList) add(p foreign.Ptr) {
	al.ptrs = append(al.ptrs, p)
}

// rollback releases every recorded node, newest first.
func (al *allocationList) rollback(heap Heap, logger *zap.Logger) {
	for i := len(al.ptrs) - 1; i >= 0; i-- {
		if err := heap.Release(al.ptrs[i]); err != nil {
			logger.Warn("rollback release failed", zap.Stringer("ptr", al.ptrs[i]), zap.Error(err))
		}
	}
	if len(al.ptrs) > 0 {
		logger.Warn("encode rolled back", zap.Int("nodes", len(al.ptrs)))
	}
	al.ptrs = al.ptrs[:0]
}

// release returns the list to the pool. The list is invalid afterwards.
func (al *allocationList) release() {
	if cap(al.ptrs) > maxPooledAllocationCapacity {
		return
	}
	al.ptrs = al.ptrs[:0]
	allocationListPool.Put(al)
}
