package reservations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contender(class Class, createdAt time.Time) Reservation {
	return Reservation{ID: uuid.New(), Class: class, CreatedAt: createdAt}
}

func TestSortContendersClassBeforeArrival(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	earlyStandard := contender(ClassStandard, base)
	latePriority := contender(ClassPriority, base.Add(time.Hour))
	lateStandard := contender(ClassStandard, base.Add(2*time.Hour))
	earlierPriority := contender(ClassPriority, base.Add(30*time.Minute))

	list := []Reservation{earlyStandard, latePriority, lateStandard, earlierPriority}
	SortContenders(list)

	require.Len(t, list, 4)
	assert.Equal(t, earlierPriority.ID, list[0].ID)
	assert.Equal(t, latePriority.ID, list[1].ID)
	assert.Equal(t, earlyStandard.ID, list[2].ID)
	assert.Equal(t, lateStandard.ID, list[3].ID)
}

func TestSortContendersEqualTimestampsAreDeterministic(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	a := contender(ClassStandard, base)
	b := contender(ClassStandard, base)

	first := []Reservation{a, b}
	second := []Reservation{b, a}
	SortContenders(first)
	SortContenders(second)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
}

func TestQueuePosition(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	standard := contender(ClassStandard, base)
	priority := contender(ClassPriority, base.Add(time.Hour))
	list := []Reservation{standard, priority}

	assert.Equal(t, 1, QueuePosition(list, priority.ID))
	assert.Equal(t, 2, QueuePosition(list, standard.ID))
	assert.Equal(t, 0, QueuePosition(list, uuid.New()))

	// The input slice is not reordered.
	assert.Equal(t, standard.ID, list[0].ID)
}

func TestTopContender(t *testing.T) {
	assert.Nil(t, TopContender(nil))

	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	standard := contender(ClassStandard, base)
	priority := contender(ClassPriority, base.Add(time.Hour))

	top := TopContender([]Reservation{standard, priority})
	require.NotNil(t, top)
	assert.Equal(t, priority.ID, top.ID)
}
