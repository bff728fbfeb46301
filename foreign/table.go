package foreign

import "sync"

// EventType tells allocation from release events.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event is a record lifecycle notification.
type Event struct {
	Ptr  Ptr
	Type EventType
}

// Observer receives notifications about record lifecycle events.
type Observer interface {
	OnHeapEvent(Event)
}

// table tracks live records and lifecycle observers.
type table struct {
	live      map[Ptr]struct{}
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

func newTable() *table {
	return &table{live: make(map[Ptr]struct{}, 64)}
}

// insert marks p live. It returns false if p is Null or already live.
func (t *table) insert(p Ptr) bool {
	if p == Null {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[p]; ok {
		return false
	}
	t.live[p] = struct{}{}
	return true
}

func (t *table) contains(p Ptr) bool {
	if p == Null {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.live[p]
	return ok
}

// remove marks p dead. It returns false if p was not live.
func (t *table) remove(p Ptr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[p]; !ok {
		return false
	}
	delete(t.live, p)
	return true
}

func (t *table) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.live)
}

func (t *table) snapshot() []Ptr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Ptr, 0, len(t.live))
	for p := range t.live {
		out = append(out, p)
	}
	return out
}

func (t *table) subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *table) unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHeapEvent(e)
	}
}
