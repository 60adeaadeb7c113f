package reservations

import "time"

// ReservationResponse is the wire view of a reservation. Contact phone is
// omitted by the model's json tag; this wrapper additionally renders date and
// times in the formats requests use.
type ReservationResponse struct {
	Reservation
	DateStr  string `json:"date_str"`
	StartStr string `json:"start_str"`
	EndStr   string `json:"end_str"`
}

// NewReservationResponse wraps a reservation for the wire.
func NewReservationResponse(r *Reservation) ReservationResponse {
	return ReservationResponse{
		Reservation: *r,
		DateStr:     r.Date.Format("2006-01-02"),
		StartStr:    r.StartTime.Format("15:04"),
		EndStr:      r.EndTime.Format("15:04"),
	}
}

// NewReservationListResponse wraps a slice of reservations.
func NewReservationListResponse(list []Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewReservationResponse(&list[i]))
	}
	return out
}

// SubmitResponse is the wire form of a submission outcome. BlockedBy names
// the confirmed holder a queued placement waits behind, when there is one.
type SubmitResponse struct {
	Reservation   ReservationResponse `json:"reservation"`
	QueuePosition int                 `json:"queue_position,omitempty"`
	BlockedBy     *BlockerSummary     `json:"blocked_by,omitempty"`
}

// QueuePositionResponse is the wire form of a queue rank lookup.
type QueuePositionResponse struct {
	ReservationID string `json:"reservation_id"`
	Position      int    `json:"position"`
}

// UnavailableDatesResponse lists the dates a resource cannot take bookings.
type UnavailableDatesResponse struct {
	ResourceID string   `json:"resource_id"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Dates      []string `json:"dates"`
}

// NewUnavailableDatesResponse renders the dates in wire format.
func NewUnavailableDatesResponse(resourceID string, from, to time.Time, dates []time.Time) UnavailableDatesResponse {
	rendered := make([]string, 0, len(dates))
	for _, d := range dates {
		rendered = append(rendered, d.Format("2006-01-02"))
	}
	return UnavailableDatesResponse{
		ResourceID: resourceID,
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		Dates:      rendered,
	}
}
