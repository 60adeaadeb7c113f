package reservations

import (
	"time"

	"github.com/google/uuid"
)

// validTransitions is the full lifecycle table. Creation enters at REQUESTED
// or QUEUED depending on the conflict outcome; DECLINED and WITHDRAWN are
// terminal; CONFIRMED can still be withdrawn.
var validTransitions = map[Status][]Status{
	StatusRequested: {StatusConfirmed, StatusDeclined, StatusWithdrawn, StatusQueued},
	StatusQueued:    {StatusRequested, StatusDeclined, StatusWithdrawn},
	StatusConfirmed: {StatusWithdrawn, StatusQueued},
	StatusDeclined:  {},
	StatusWithdrawn: {},
}

// CanTransition reports whether the lifecycle table permits from -> to.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// transition mutates the status after validating it against the table.
func (r *Reservation) transition(to Status, op string) error {
	if !CanTransition(r.Status, to) {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: op}
	}
	r.Status = to
	return nil
}

// Confirm applies the human-approve transition. The caller demotes the other
// contenders and clears their deadlines separately.
func (r *Reservation) Confirm(actor uuid.UUID) error {
	if r.Status != StatusRequested {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "approve"}
	}
	if err := r.transition(StatusConfirmed, "approve"); err != nil {
		return err
	}
	r.DecidedBy = &actor
	r.ApprovalDeadline = nil
	return nil
}

// Decline applies the human-reject transition.
func (r *Reservation) Decline(actor uuid.UUID, reason string) error {
	if r.Status != StatusRequested {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "decline"}
	}
	if err := r.transition(StatusDeclined, "decline"); err != nil {
		return err
	}
	r.DecidedBy = &actor
	r.DeclineReason = reason
	r.ApprovalDeadline = nil
	return nil
}

// Withdraw applies the requester-cancel transition. Allowed from REQUESTED,
// QUEUED and CONFIRMED while the slot has not elapsed.
func (r *Reservation) Withdraw(reason string, now time.Time) error {
	if !r.CanCancel(now) {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "withdraw"}
	}
	if err := r.transition(StatusWithdrawn, "withdraw"); err != nil {
		return err
	}
	r.WithdrawReason = reason
	r.ApprovalDeadline = nil
	return nil
}

// Expire applies the sweep transition: DECLINED with the auto-expired flag.
// Valid from REQUESTED (deadline breach) and QUEUED (stale entry past its
// date). Calling it on any other state returns StaleStateError, which makes
// the sweep idempotent.
func (r *Reservation) Expire() error {
	if r.Status != StatusRequested && r.Status != StatusQueued {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "expire"}
	}
	if err := r.transition(StatusDeclined, "expire"); err != nil {
		return err
	}
	r.AutoExpired = true
	r.ApprovalDeadline = nil
	return nil
}

// Promote applies the QUEUED -> REQUESTED transition with a fresh deadline.
// A reservation already in REQUESTED is left untouched (no-op guard for the
// promotion race).
func (r *Reservation) Promote(deadline time.Time) error {
	if r.Status == StatusRequested {
		return nil
	}
	if err := r.transition(StatusRequested, "promote"); err != nil {
		return err
	}
	r.ApprovalDeadline = &deadline
	return nil
}

// Requeue sends a reservation back to QUEUED after a reschedule into a
// contended window. Valid from REQUESTED and CONFIRMED; a confirmed record
// loses its decision because the approved window no longer exists.
func (r *Reservation) Requeue() error {
	if r.Status != StatusRequested && r.Status != StatusConfirmed {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "requeue"}
	}
	if err := r.transition(StatusQueued, "requeue"); err != nil {
		return err
	}
	r.ApprovalDeadline = nil
	r.DecidedBy = nil
	return nil
}

// Demote moves a REQUESTED reservation back to QUEUED (approval of a
// competing contender) and clears its deadline.
func (r *Reservation) Demote() error {
	if r.Status != StatusRequested {
		return &StaleStateError{ReservationID: r.ID, Current: r.Status, Operation: "demote"}
	}
	if err := r.transition(StatusQueued, "demote"); err != nil {
		return err
	}
	r.ApprovalDeadline = nil
	return nil
}
