package reservations

import "github.com/google/uuid"

// Overlap predicates over stored reservations. These are pure: the repository
// narrows by (resource, date, status) and the window filtering happens here,
// so the same logic serves the exclusivity check, the contention query and
// the reschedule self-exclusion case.

// FilterOverlapping returns the reservations whose window intersects w,
// excluding the reservation with the given id (uuid.Nil excludes nothing).
// Input order is preserved.
func FilterOverlapping(list []Reservation, w Window, exclude uuid.UUID) []Reservation {
	var result []Reservation
	for _, r := range list {
		if exclude != uuid.Nil && r.ID == exclude {
			continue
		}
		if r.Window().Overlaps(w) {
			result = append(result, r)
		}
	}
	return result
}

// FirstOverlapping returns the first reservation intersecting w, or nil.
func FirstOverlapping(list []Reservation, w Window, exclude uuid.UUID) *Reservation {
	for i := range list {
		if exclude != uuid.Nil && list[i].ID == exclude {
			continue
		}
		if list[i].Window().Overlaps(w) {
			return &list[i]
		}
	}
	return nil
}
