package reservations

import (
	"sort"

	"github.com/google/uuid"
)

// Two-level priority ordering over contenders for the same slot window:
// class rank first (Priority before Standard), creation time second (earlier
// wins). The ordering is recomputed on demand and never cached, because
// membership changes on every transition.

// classRank maps a class to its sort rank; lower ranks win.
func classRank(c Class) int {
	if c == ClassPriority {
		return 1
	}
	return 2
}

// SortContenders orders the slice in place by (class rank, creation time).
// The id comparison is a final tiebreak so the order is total even for equal
// timestamps.
func SortContenders(list []Reservation) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := classRank(list[i].Class), classRank(list[j].Class)
		if ri != rj {
			return ri < rj
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}

// QueuePosition returns the 1-based rank of the reservation with the given id
// among the contenders, or 0 if it is not among them.
func QueuePosition(contenders []Reservation, id uuid.UUID) int {
	ordered := make([]Reservation, len(contenders))
	copy(ordered, contenders)
	SortContenders(ordered)

	for i, r := range ordered {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}

// TopContender returns the best-ranked contender, or nil when empty.
func TopContender(contenders []Reservation) *Reservation {
	if len(contenders) == 0 {
		return nil
	}
	ordered := make([]Reservation, len(contenders))
	copy(ordered, contenders)
	SortContenders(ordered)
	return &ordered[0]
}
