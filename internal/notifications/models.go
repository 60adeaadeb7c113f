package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"reservly/internal/reservations"

	"github.com/google/uuid"
)

// DeliveryStatus tracks an email notification through the pipeline.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "PENDING"
	StatusQueued  DeliveryStatus = "QUEUED"
	StatusSending DeliveryStatus = "SENDING"
	StatusSent    DeliveryStatus = "SENT"
	StatusFailed  DeliveryStatus = "FAILED"
)

// EmailNotification is the message published to the notification topic and
// consumed by the email workers.
type EmailNotification struct {
	ID             uuid.UUID               `json:"id"`
	Kind           reservations.EffectKind `json:"kind"`
	RecipientID    uuid.UUID               `json:"recipient_id"`
	RecipientEmail string                  `json:"recipient_email"`
	RecipientName  string                  `json:"recipient_name"`
	Subject        string                  `json:"subject"`
	Context        map[string]interface{}  `json:"context,omitempty"`
	Status         DeliveryStatus          `json:"status"`
	Attempts       int                     `json:"attempts"`
	LastError      string                  `json:"last_error,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// NewEmailNotification builds a pending notification for one recipient.
func NewEmailNotification(kind reservations.EffectKind, recipientID uuid.UUID, email, name string, context map[string]interface{}) *EmailNotification {
	now := time.Now().UTC()
	return &EmailNotification{
		ID:             uuid.New(),
		Kind:           kind,
		RecipientID:    recipientID,
		RecipientEmail: email,
		RecipientName:  name,
		Subject:        subjectFor(kind, context),
		Context:        context,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// PartitionKey keeps one recipient's notifications on one partition so
// delivery order per person is preserved.
func (n *EmailNotification) PartitionKey() string {
	return n.RecipientID.String()
}

// ToJSON serializes the notification for the wire.
func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// MarkSent records a successful delivery.
func (n *EmailNotification) MarkSent() {
	n.Status = StatusSent
	n.UpdatedAt = time.Now().UTC()
}

// MarkFailed records a delivery failure.
func (n *EmailNotification) MarkFailed(err error) {
	n.Status = StatusFailed
	n.LastError = err.Error()
	n.UpdatedAt = time.Now().UTC()
}

// subjectFor renders the subject line for each notification kind.
func subjectFor(kind reservations.EffectKind, context map[string]interface{}) string {
	date, _ := context["date"].(string)

	switch kind {
	case reservations.EffectApproved:
		return fmt.Sprintf("Your reservation for %s is confirmed", date)
	case reservations.EffectDeclined:
		return fmt.Sprintf("Your reservation for %s was declined", date)
	case reservations.EffectStandby:
		return fmt.Sprintf("Your reservation for %s is on standby", date)
	case reservations.EffectPromoted:
		return fmt.Sprintf("A slot opened up for %s, action required", date)
	case reservations.EffectExpired:
		return fmt.Sprintf("Your reservation for %s expired without a decision", date)
	case reservations.EffectRescheduled:
		return fmt.Sprintf("Your reservation was moved to %s", date)
	case reservations.EffectAdminNewRequest:
		return fmt.Sprintf("New reservation request for %s awaits review", date)
	case reservations.EffectAdminWithdrawn:
		return fmt.Sprintf("A confirmed reservation for %s was withdrawn", date)
	default:
		return "Reservation update"
	}
}
