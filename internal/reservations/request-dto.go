package reservations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmitReservationRequest is the wire form of a submission. Date uses
// 2006-01-02 and times use 15:04 on that date.
type SubmitReservationRequest struct {
	ResourceID   string `json:"resource_id" binding:"required,uuid"`
	Class        string `json:"class" binding:"required,oneof=STANDARD PRIORITY"`
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	DelegateName string `json:"delegate_name"`

	Hall    *HallDetails    `json:"hall"`
	Vehicle *VehicleDetails `json:"vehicle"`
}

// RescheduleReservationRequest is the wire form of a reschedule.
type RescheduleReservationRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// DecisionRequest carries the optional reason on decline and withdraw.
type DecisionRequest struct {
	Reason string `json:"reason"`
}

// parseSlot converts the wire date and time strings into the canonical date
// plus window, both in UTC.
func parseSlot(dateStr, startStr, endStr string) (time.Time, Window, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return time.Time{}, Window{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}
	start, err := time.ParseInLocation("15:04", startStr, time.UTC)
	if err != nil {
		return time.Time{}, Window{}, fmt.Errorf("invalid start_time %q, expected HH:MM", startStr)
	}
	end, err := time.ParseInLocation("15:04", endStr, time.UTC)
	if err != nil {
		return time.Time{}, Window{}, fmt.Errorf("invalid end_time %q, expected HH:MM", endStr)
	}

	w := Window{
		Start: time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC),
		End:   time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC),
	}
	return date, w, nil
}

// ToSubmitInput converts the wire request into engine input. Requester
// identity comes from the authenticated session, not the body.
func (r *SubmitReservationRequest) ToSubmitInput(requesterID uuid.UUID, requesterName string) (SubmitInput, error) {
	resourceID, err := uuid.Parse(r.ResourceID)
	if err != nil {
		return SubmitInput{}, fmt.Errorf("invalid resource_id")
	}
	date, window, err := parseSlot(r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return SubmitInput{}, err
	}

	return SubmitInput{
		ResourceID:    resourceID,
		RequesterID:   requesterID,
		RequesterName: requesterName,
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
		DelegateName:  r.DelegateName,
		Class:         Class(r.Class),
		Date:          date,
		Window:        window,
		Hall:          r.Hall,
		Vehicle:       r.Vehicle,
	}, nil
}

// ToRescheduleInput converts the wire request into engine input.
func (r *RescheduleReservationRequest) ToRescheduleInput() (RescheduleInput, error) {
	date, window, err := parseSlot(r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return RescheduleInput{}, err
	}
	return RescheduleInput{Date: date, Window: window}, nil
}
