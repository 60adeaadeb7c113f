package notifications

import (
	"context"

	"reservly/internal/reservations"
	"reservly/internal/users"
	"reservly/pkg/logger"

	"github.com/google/uuid"
)

// EffectDispatcher turns engine effects into email notifications on the
// delivery topic. Failures are logged and swallowed: notification trouble
// must never unwind a completed state transition.
type EffectDispatcher struct {
	producer Producer
	users    users.Service
}

// NewEffectDispatcher wires the dispatcher.
func NewEffectDispatcher(producer Producer, usersSvc users.Service) *EffectDispatcher {
	return &EffectDispatcher{producer: producer, users: usersSvc}
}

// Dispatch resolves each effect's recipient and publishes the batch.
func (d *EffectDispatcher) Dispatch(ctx context.Context, effects []reservations.Effect) {
	if len(effects) == 0 {
		return
	}

	batch := make([]*EmailNotification, 0, len(effects))
	for _, effect := range effects {
		recipient, err := d.users.GetUser(ctx, effect.RecipientID)
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to resolve notification recipient", err,
				map[string]interface{}{"recipient_id": effect.RecipientID.String()})
			continue
		}
		if !recipient.IsActive {
			continue
		}
		batch = append(batch, NewEmailNotification(effect.Kind, recipient.ID, recipient.Email, recipient.FullName, effect.Context))
	}

	if err := d.producer.PublishBatch(ctx, batch); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish notification batch", err, nil)
	}
}

// AdminDirectory adapts the users service to the engine's admin fan-out
// lookup.
type AdminDirectory struct {
	users users.Service
}

// NewAdminDirectory wires the directory.
func NewAdminDirectory(usersSvc users.Service) *AdminDirectory {
	return &AdminDirectory{users: usersSvc}
}

// AdminRecipientIDs returns the ids of all active staff accounts.
func (a *AdminDirectory) AdminRecipientIDs(ctx context.Context) ([]uuid.UUID, error) {
	admins, err := a.users.AdminRecipients(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(admins))
	for _, admin := range admins {
		if admin.IsActive {
			ids = append(ids, admin.ID)
		}
	}
	return ids, nil
}
