package reservations

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSlotLockerSerializesSameSlot(t *testing.T) {
	locker := newSlotLocker()
	slot := Slot{ResourceID: uuid.New(), Date: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(slot)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 64, counter)
}

func TestSlotLockerDistinctSlotsDoNotContend(t *testing.T) {
	locker := newSlotLocker()
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	a := Slot{ResourceID: uuid.New(), Date: day}
	b := Slot{ResourceID: uuid.New(), Date: day}

	unlockA := locker.Lock(a)
	defer unlockA()

	// Locking a different slot must not block.
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock(b)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent slots contended")
	}
}

func TestLockBothIsDeadlockFree(t *testing.T) {
	locker := newSlotLocker()
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	a := Slot{ResourceID: uuid.New(), Date: day}
	b := Slot{ResourceID: uuid.New(), Date: day.AddDate(0, 0, 1)}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := locker.LockBoth(a, b)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := locker.LockBoth(b, a)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cross-order locking deadlocked")
	}
}

func TestLockBothCoincidingSlots(t *testing.T) {
	locker := newSlotLocker()
	slot := Slot{ResourceID: uuid.New(), Date: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)}

	unlock := locker.LockBoth(slot, slot)
	unlock()

	// The single mutex is reusable afterwards.
	unlock = locker.Lock(slot)
	unlock()
}

func TestSlotKeyFormat(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	slot := Slot{ResourceID: id, Date: time.Date(2026, time.March, 3, 15, 30, 0, 0, time.UTC)}
	assert.Equal(t, "reservations:lock:6ba7b810-9dad-11d1-80b4-00c04fd430c8:2026-03-03", slot.Key())
}
