package notifications

import (
	"context"
	"fmt"
	"testing"

	"reservly/internal/reservations"
	"reservly/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID map[uuid.UUID]users.User
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return &u, nil
}

func (f *fakeUsers) AdminRecipients(_ context.Context) ([]users.User, error) {
	var out []users.User
	for _, u := range f.byID {
		if u.Role.IsStaff() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListUsers(_ context.Context) ([]users.User, error) { return nil, nil }

func (f *fakeUsers) SetActive(_ context.Context, _ uuid.UUID, _ bool) (*users.User, error) {
	return nil, nil
}

type fakeProducer struct {
	published []*EmailNotification
}

func (f *fakeProducer) Publish(_ context.Context, n *EmailNotification) error {
	f.published = append(f.published, n)
	return nil
}

func (f *fakeProducer) PublishBatch(_ context.Context, batch []*EmailNotification) error {
	f.published = append(f.published, batch...)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestDispatchResolvesRecipientsAndSkipsUnknown(t *testing.T) {
	active := users.User{ID: uuid.New(), Email: "alex@example.com", FullName: "Alex", Role: users.RoleRequester, IsActive: true}
	inactive := users.User{ID: uuid.New(), Email: "gone@example.com", FullName: "Gone", Role: users.RoleRequester, IsActive: false}
	directory := &fakeUsers{byID: map[uuid.UUID]users.User{active.ID: active, inactive.ID: inactive}}
	producer := &fakeProducer{}

	d := NewEffectDispatcher(producer, directory)
	d.Dispatch(context.Background(), []reservations.Effect{
		{RecipientID: active.ID, Kind: reservations.EffectApproved, Context: map[string]interface{}{"date": "2026-03-03"}},
		{RecipientID: inactive.ID, Kind: reservations.EffectApproved},
		{RecipientID: uuid.New(), Kind: reservations.EffectApproved},
	})

	require.Len(t, producer.published, 1)
	got := producer.published[0]
	assert.Equal(t, "alex@example.com", got.RecipientEmail)
	assert.Equal(t, reservations.EffectApproved, got.Kind)
	assert.Equal(t, "Your reservation for 2026-03-03 is confirmed", got.Subject)
}

func TestAdminDirectoryReturnsActiveStaffOnly(t *testing.T) {
	staff := users.User{ID: uuid.New(), Role: users.RoleReceptionist, IsActive: true}
	retired := users.User{ID: uuid.New(), Role: users.RoleSuperAdmin, IsActive: false}
	requester := users.User{ID: uuid.New(), Role: users.RoleRequester, IsActive: true}
	directory := &fakeUsers{byID: map[uuid.UUID]users.User{
		staff.ID: staff, retired.ID: retired, requester.ID: requester,
	}}

	ids, err := NewAdminDirectory(directory).AdminRecipientIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, staff.ID, ids[0])
}

func TestSubjectForEveryKind(t *testing.T) {
	ctx := map[string]interface{}{"date": "2026-03-03"}
	kinds := []reservations.EffectKind{
		reservations.EffectApproved,
		reservations.EffectDeclined,
		reservations.EffectStandby,
		reservations.EffectPromoted,
		reservations.EffectExpired,
		reservations.EffectRescheduled,
		reservations.EffectAdminNewRequest,
		reservations.EffectAdminWithdrawn,
	}
	for _, kind := range kinds {
		subject := subjectFor(kind, ctx)
		assert.NotEqual(t, "Reservation update", subject, "kind %s should have a specific subject", kind)
		assert.Contains(t, subject, "2026-03-03")
	}
}
