package reservations

import (
	"context"

	"github.com/google/uuid"
)

// EffectKind names the notification a state transition owes someone. The
// engine decides that and to whom; delivery belongs to the dispatcher.
type EffectKind string

const (
	EffectApproved        EffectKind = "RESERVATION_APPROVED"
	EffectDeclined        EffectKind = "RESERVATION_DECLINED"
	EffectStandby         EffectKind = "RESERVATION_STANDBY"
	EffectPromoted        EffectKind = "RESERVATION_PROMOTED"
	EffectExpired         EffectKind = "RESERVATION_EXPIRED"
	EffectRescheduled     EffectKind = "RESERVATION_RESCHEDULED"
	EffectAdminNewRequest EffectKind = "ADMIN_NEW_REQUEST"
	EffectAdminWithdrawn  EffectKind = "ADMIN_RESERVATION_WITHDRAWN"
)

// Effect is a pending notification descriptor. Effects are collected inside
// the exclusive scope and executed by the caller strictly after it is
// released, so slow delivery never holds a slot lock.
type Effect struct {
	RecipientID uuid.UUID              `json:"recipient_id"`
	Kind        EffectKind             `json:"kind"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// Dispatcher delivers effects. Implementations are fire-and-forget: failures
// are logged and swallowed, never propagated back into the transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, effects []Effect)
}

// AdminResolver resolves the staff subscriber list for admin fan-out
// effects. Resolved by the outer layer, not hard-coded in the engine.
type AdminResolver interface {
	AdminRecipientIDs(ctx context.Context) ([]uuid.UUID, error)
}

// reservationContext builds the common effect context payload.
func reservationContext(r *Reservation, extra map[string]interface{}) map[string]interface{} {
	ctx := map[string]interface{}{
		"reservation_id": r.ID.String(),
		"resource_id":    r.ResourceID.String(),
		"date":           r.Date.Format("2006-01-02"),
		"start_time":     r.StartTime.Format("15:04"),
		"end_time":       r.EndTime.Format("15:04"),
		"status":         string(r.Status),
	}
	for k, v := range extra {
		ctx[k] = v
	}
	return ctx
}
