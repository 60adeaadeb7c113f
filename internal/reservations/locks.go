package reservations

import (
	"sort"
	"sync"
)

// slotLocker serializes every read-modify-write sequence touching one
// (resource, date) slot. Cross-resource and cross-date operations do not
// contend. Mutexes are created on first use and kept for the process
// lifetime; the population is bounded by the number of distinct slots seen.
type slotLocker struct {
	mu sync.Map // Slot.Key() -> *sync.Mutex
}

func newSlotLocker() *slotLocker {
	return &slotLocker{}
}

// Lock acquires the slot's mutex and returns its unlock function.
func (l *slotLocker) Lock(s Slot) func() {
	m := l.mutexFor(s.Key())
	m.Lock()
	return m.Unlock
}

// LockBoth acquires the mutexes of two slots in deterministic key order so
// concurrent cross-slot operations (reschedules) cannot deadlock. A single
// mutex is taken when both slots coincide.
func (l *slotLocker) LockBoth(a, b Slot) func() {
	ka, kb := a.Key(), b.Key()
	if ka == kb {
		return l.Lock(a)
	}

	keys := []string{ka, kb}
	sort.Strings(keys)

	first := l.mutexFor(keys[0])
	second := l.mutexFor(keys[1])
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

func (l *slotLocker) mutexFor(key string) *sync.Mutex {
	v, _ := l.mu.LoadOrStore(key, &sync.Mutex{})
	return v.(*sync.Mutex)
}
