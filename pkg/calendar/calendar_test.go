package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh int) time.Time {
	return time.Date(y, m, d, hh, 0, 0, 0, time.UTC)
}

func TestDeadlineOnBusinessDay(t *testing.T) {
	cal := New()

	// Monday 10:00 -> Tuesday 10:00, already a business day.
	from := date(2024, time.March, 4, 10)
	deadline := cal.Deadline(from)

	assert.Equal(t, date(2024, time.March, 5, 10), deadline)
	assert.Equal(t, ApprovalWindow, deadline.Sub(from))
}

func TestDeadlineSkipsWeekend(t *testing.T) {
	cal := New()

	// Friday 15:00 -> Saturday 15:00 -> skip to Monday 15:00.
	from := date(2024, time.March, 1, 15)
	deadline := cal.Deadline(from)

	assert.Equal(t, date(2024, time.March, 4, 15), deadline)
	assert.Equal(t, time.Monday, deadline.Weekday())
}

func TestDeadlineSkipsHolidayRuns(t *testing.T) {
	// Tuesday 2024-03-05 and Wednesday 2024-03-06 are holidays.
	cal := New(date(2024, time.March, 5, 0), date(2024, time.March, 6, 0))

	// Monday 09:00 -> Tuesday (holiday) -> Wednesday (holiday) -> Thursday.
	from := date(2024, time.March, 4, 9)
	deadline := cal.Deadline(from)

	assert.Equal(t, date(2024, time.March, 7, 9), deadline)
}

func TestDeadlineHolidayIntoWeekend(t *testing.T) {
	// Friday 2024-03-08 is a holiday; a Thursday submission has to clear the
	// holiday and the following weekend.
	cal := New(date(2024, time.March, 8, 0))

	from := date(2024, time.March, 7, 11)
	deadline := cal.Deadline(from)

	assert.Equal(t, date(2024, time.March, 11, 11), deadline)
}

func TestDeadlineMonotonicity(t *testing.T) {
	cal := New(date(2024, time.December, 25, 0), date(2024, time.December, 26, 0))

	from := date(2024, time.December, 20, 8)
	for i := 0; i < 30; i++ {
		deadline := cal.Deadline(from)
		require.True(t, deadline.Sub(from) >= ApprovalWindow,
			"deadline %v not at least 24h after %v", deadline, from)
		require.True(t, cal.IsBusinessDay(deadline))
		from = from.Add(13 * time.Hour)
	}
}

func TestIsBusinessDay(t *testing.T) {
	cal := New(date(2024, time.January, 1, 0))

	assert.False(t, cal.IsBusinessDay(date(2024, time.January, 6, 12)), "saturday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.January, 7, 12)), "sunday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.January, 1, 12)), "holiday")
	assert.True(t, cal.IsBusinessDay(date(2024, time.January, 2, 12)))
}
