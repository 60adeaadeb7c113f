package reservations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(startHour, endHour int) Window {
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	return Window{Start: day.Add(time.Duration(startHour) * time.Hour), End: day.Add(time.Duration(endHour) * time.Hour)}
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{"identical", window(10, 12), window(10, 12), true},
		{"partial", window(10, 12), window(11, 13), true},
		{"contained", window(10, 14), window(11, 12), true},
		{"disjoint", window(8, 9), window(10, 12), false},
		{"shared boundary", window(10, 12), window(12, 14), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestFilterOverlapping(t *testing.T) {
	a := Reservation{ID: uuid.New(), StartTime: window(10, 12).Start, EndTime: window(10, 12).End}
	b := Reservation{ID: uuid.New(), StartTime: window(11, 13).Start, EndTime: window(11, 13).End}
	c := Reservation{ID: uuid.New(), StartTime: window(14, 15).Start, EndTime: window(14, 15).End}
	list := []Reservation{a, b, c}

	got := FilterOverlapping(list, window(10, 12), uuid.Nil)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)

	// Self-exclusion for reschedules.
	got = FilterOverlapping(list, window(10, 12), a.ID)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	assert.Empty(t, FilterOverlapping(list, window(8, 9), uuid.Nil))
}

func TestFirstOverlapping(t *testing.T) {
	a := Reservation{ID: uuid.New(), StartTime: window(10, 12).Start, EndTime: window(10, 12).End}
	list := []Reservation{a}

	got := FirstOverlapping(list, window(11, 13), uuid.Nil)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)

	assert.Nil(t, FirstOverlapping(list, window(11, 13), a.ID))
	assert.Nil(t, FirstOverlapping(list, window(12, 13), uuid.Nil))
}
