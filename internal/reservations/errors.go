package reservations

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the reservation id resolves to nothing.
var ErrNotFound = errors.New("reservation not found")

// ErrNotPermitted is returned when the acting user may not perform the
// operation on this reservation (e.g. withdrawing someone else's request).
var ErrNotPermitted = errors.New("operation not permitted for this user")

// ValidationError rejects a malformed request before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a hard block by a Confirmed reservation the requester
// cannot preempt. It carries the blocker's disclosable summary; the request
// is never silently waitlisted when this is returned.
type ConflictError struct {
	Blocker BlockerSummary
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot is held by a confirmed reservation (%s)", e.Blocker.ReservationID)
}

// BlockedDateError reports an administrative calendar block. It takes
// precedence over all queueing logic; no record is created.
type BlockedDateError struct {
	Date time.Time
}

func (e *BlockedDateError) Error() string {
	return fmt.Sprintf("date %s is blocked for this resource", e.Date.Format("2006-01-02"))
}

// StaleStateError reports an operation against a reservation that is no
// longer in a state permitting the transition. The operation is a no-op.
type StaleStateError struct {
	ReservationID uuid.UUID
	Current       Status
	Operation     string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("cannot %s reservation %s in state %s", e.Operation, e.ReservationID, e.Current)
}
