package reservations

import (
	"time"

	"reservly/internal/resources"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a reservation
type Status string

const (
	// StatusRequested means the reservation holds the slot and awaits human approval.
	StatusRequested Status = "REQUESTED"
	// StatusQueued means the reservation waits behind other contenders; no deadline runs.
	StatusQueued Status = "QUEUED"
	// StatusConfirmed means a staff member approved the reservation.
	StatusConfirmed Status = "CONFIRMED"
	// StatusDeclined is terminal: rejected by staff or auto-expired by the sweep.
	StatusDeclined Status = "DECLINED"
	// StatusWithdrawn is terminal: the requester (or staff) cancelled it.
	StatusWithdrawn Status = "WITHDRAWN"
)

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusQueued, StatusConfirmed, StatusDeclined, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusWithdrawn
}

// Class is the two-tier request priority. Priority outranks Standard in the
// queue ordering; it never displaces a Confirmed holder.
type Class string

const (
	ClassStandard Class = "STANDARD"
	ClassPriority Class = "PRIORITY"
)

// IsValid reports whether the class is one of the known values.
func (c Class) IsValid() bool {
	return c == ClassStandard || c == ClassPriority
}

// activeStatuses is the contention set: reservations that compete for a slot.
var activeStatuses = []Status{StatusRequested, StatusQueued}

// Window is a half-open time interval [Start, End) on a reservation's date.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// IsValid reports whether End strictly exceeds Start.
func (w Window) IsValid() bool {
	return w.End.After(w.Start)
}

// HallDetails is the hall-kind reservation payload.
type HallDetails struct {
	Purpose           string `json:"purpose,omitempty"`
	ExpectedHeadcount int    `json:"expected_headcount,omitempty"`
}

// VehicleDetails is the vehicle-kind reservation payload.
type VehicleDetails struct {
	Destination    string `json:"destination,omitempty"`
	PassengerCount int    `json:"passenger_count,omitempty"`
}

// Reservation is the central entity: one request for one resource on one date
// and time window. Terminal records are kept for history, never deleted by
// the engine.
type Reservation struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResourceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_resource_date" json:"resource_id"`
	Kind       resources.Kind `gorm:"type:varchar(10);not null" json:"kind"`

	RequesterID   uuid.UUID `gorm:"type:uuid;not null;index" json:"requester_id"`
	RequesterName string    `gorm:"not null" json:"requester_name"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	ContactPhone  string    `json:"-"` // never disclosed in blocker summaries
	DelegateName  string    `json:"delegate_name,omitempty"`

	Class Class `gorm:"type:varchar(10);not null;index" json:"class"`

	Date      time.Time `gorm:"type:date;not null;index:idx_resource_date" json:"date"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status Status `gorm:"type:varchar(12);not null;index" json:"status"`

	// ApprovalDeadline is non-nil exactly while Status is REQUESTED.
	ApprovalDeadline *time.Time `json:"approval_deadline,omitempty"`
	// AutoExpired is set only when the sweep, not a human, declined the record.
	AutoExpired bool `gorm:"default:false" json:"auto_expired"`

	DecidedBy      *uuid.UUID `gorm:"type:uuid" json:"decided_by,omitempty"`
	DeclineReason  string     `json:"decline_reason,omitempty"`
	WithdrawReason string     `json:"withdraw_reason,omitempty"`

	// Kind-specific payloads; exactly one is set, matching Kind.
	Hall    *HallDetails    `gorm:"embedded;embeddedPrefix:hall_" json:"hall,omitempty"`
	Vehicle *VehicleDetails `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle,omitempty"`

	// CreatedAt is the FCFS tiebreak within a class; monotonic per store.
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Window returns the reservation's half-open time window.
func (r *Reservation) Window() Window {
	return Window{Start: r.StartTime, End: r.EndTime}
}

// Slot identifies the mutual-exclusion scope the reservation belongs to.
func (r *Reservation) Slot() Slot {
	return Slot{ResourceID: r.ResourceID, Date: r.Date}
}

// IsActive reports whether the reservation contends for its slot.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusRequested || r.Status == StatusQueued
}

// CanCancel reports whether the requester may still withdraw: the slot's end
// must not have elapsed and the record must not be terminal.
func (r *Reservation) CanCancel(now time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}
	return r.EndTime.After(now)
}

// DeadlineElapsed reports whether a REQUESTED reservation ran out its
// approval window.
func (r *Reservation) DeadlineElapsed(now time.Time) bool {
	return r.Status == StatusRequested &&
		r.ApprovalDeadline != nil &&
		r.ApprovalDeadline.Before(now)
}

// Slot is a (resource, date) pair: the granularity of mutual exclusion and of
// overlap contention.
type Slot struct {
	ResourceID uuid.UUID
	Date       time.Time
}

// Key renders the slot's lock key, mirroring the redis key convention used
// elsewhere in the codebase.
func (s Slot) Key() string {
	return "reservations:lock:" + s.ResourceID.String() + ":" + s.Date.Format("2006-01-02")
}

// VacatedSlot describes the window freed by a cancellation, rejection or
// reschedule-away event. It is a pre-image snapshot captured before the
// vacating record was mutated, never re-read from the store.
type VacatedSlot struct {
	ResourceID uuid.UUID
	Date       time.Time
	Window     Window
	// VacatedID is excluded from the contender query.
	VacatedID uuid.UUID
}

// BlockerSummary is the per-class disclosable view of a Confirmed reservation
// that hard-blocks a submission. Priority blockers disclose their delegate
// name and contact; Standard blockers disclose the requester identity and no
// phone-equivalent field.
type BlockerSummary struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Class         Class     `json:"class"`
	Name          string    `json:"name"`
	Contact       string    `json:"contact,omitempty"`
	Window        Window    `json:"window"`
}

// NewBlockerSummary builds the disclosable summary for a blocking reservation.
func NewBlockerSummary(blocker *Reservation) BlockerSummary {
	summary := BlockerSummary{
		ReservationID: blocker.ID,
		Class:         blocker.Class,
		Window:        blocker.Window(),
	}
	if blocker.Class == ClassPriority {
		summary.Name = blocker.DelegateName
		summary.Contact = blocker.ContactEmail
	} else {
		summary.Name = blocker.RequesterName
	}
	return summary
}

// DateOnly truncates t to midnight UTC, the canonical date representation.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
