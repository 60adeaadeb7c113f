package calendar

import (
	"time"
)

// ApprovalWindow is the base offset added to a submission instant before the
// business-day adjustment kicks in.
const ApprovalWindow = 24 * time.Hour

// BusinessCalendar computes approval deadlines that always land on a business
// day. A business day is a weekday that is not in the configured holiday set.
// The calendar holds no mutable state and is safe for concurrent use.
type BusinessCalendar struct {
	holidays map[string]struct{}
}

// New creates a calendar with the given holiday dates. Time-of-day components
// of the holiday values are ignored.
func New(holidays ...time.Time) *BusinessCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[dateKey(h)] = struct{}{}
	}
	return &BusinessCalendar{holidays: set}
}

// IsHoliday reports whether the date portion of t is a configured holiday.
func (c *BusinessCalendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[dateKey(t)]
	return ok
}

// IsBusinessDay reports whether t falls on a weekday that is not a holiday.
func (c *BusinessCalendar) IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(t)
}

// Deadline returns the approval deadline for a request submitted at from:
// from plus the 24-hour approval window, advanced one full day at a time
// until the result lands on a business day. The time of day is preserved
// across the adjustment.
func (c *BusinessCalendar) Deadline(from time.Time) time.Time {
	deadline := from.Add(ApprovalWindow)
	for !c.IsBusinessDay(deadline) {
		deadline = deadline.AddDate(0, 0, 1)
	}
	return deadline
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
