package reservations

import (
	"context"
	"fmt"
	"time"

	"reservly/pkg/calendar"
	"reservly/pkg/logger"
)

// QueueManager performs the single queue mutation the engine knows: promote
// the best-ranked QUEUED contender into the window a slot holder just
// vacated. The caller must already hold the slot's mutex; promotion never
// takes locks of its own.
type QueueManager struct {
	repo Repository
	cal  *calendar.BusinessCalendar
}

// NewQueueManager creates a queue manager over the given store and calendar.
func NewQueueManager(repo Repository, cal *calendar.BusinessCalendar) *QueueManager {
	return &QueueManager{repo: repo, cal: cal}
}

// Promote finds the active contenders overlapping the vacated window, orders
// them by class then arrival, and moves exactly the winner to REQUESTED with
// a fresh approval deadline. A top contender that already holds REQUESTED
// means the window is still claimed and nothing is promoted. The vacating
// reservation itself is excluded via the pre-image snapshot, so its own
// (possibly already mutated) row never competes. Returns the promoted
// reservation with its owed effect, or (nil, nil, nil) when the queue is
// empty, which is a normal outcome.
func (q *QueueManager) Promote(ctx context.Context, vacated VacatedSlot, now time.Time) (*Reservation, []Effect, error) {
	active, err := q.repo.ListForSlot(ctx, vacated.ResourceID, vacated.Date, activeStatuses)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load queue for promotion: %w", err)
	}

	contenders := FilterOverlapping(active, vacated.Window, vacated.VacatedID)
	winner := TopContender(contenders)
	if winner == nil || winner.Status == StatusRequested {
		return nil, nil, nil
	}

	deadline := q.cal.Deadline(now)
	if err := winner.Promote(deadline); err != nil {
		return nil, nil, err
	}
	if err := q.repo.Update(ctx, winner); err != nil {
		return nil, nil, fmt.Errorf("failed to persist promotion: %w", err)
	}

	logger.GetDefault().LogPromotion(ctx, winner.ID.String(), winner.ResourceID.String(), winner.Date.Format("2006-01-02"))

	effects := []Effect{{
		RecipientID: winner.RequesterID,
		Kind:        EffectPromoted,
		Context: reservationContext(winner, map[string]interface{}{
			"approval_deadline": deadline.Format(time.RFC3339),
		}),
	}}
	return winner, effects, nil
}
