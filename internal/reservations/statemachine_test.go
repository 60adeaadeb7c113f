package reservations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReservation(status Status) *Reservation {
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	return &Reservation{
		ID:        uuid.New(),
		Status:    status,
		Date:      day,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(12 * time.Hour),
	}
}

func TestCanTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(StatusRequested, StatusConfirmed))
	assert.True(t, CanTransition(StatusRequested, StatusQueued))
	assert.True(t, CanTransition(StatusQueued, StatusRequested))
	assert.True(t, CanTransition(StatusConfirmed, StatusWithdrawn))
	assert.True(t, CanTransition(StatusConfirmed, StatusQueued))

	assert.False(t, CanTransition(StatusQueued, StatusConfirmed), "queued must pass through requested")
	assert.False(t, CanTransition(StatusDeclined, StatusRequested), "declined is terminal")
	assert.False(t, CanTransition(StatusWithdrawn, StatusRequested), "withdrawn is terminal")
	assert.False(t, CanTransition(StatusConfirmed, StatusDeclined))
}

func TestConfirmSetsDeciderAndClearsDeadline(t *testing.T) {
	r := testReservation(StatusRequested)
	deadline := time.Now().Add(time.Hour)
	r.ApprovalDeadline = &deadline

	actor := uuid.New()
	require.NoError(t, r.Confirm(actor))
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, &actor, r.DecidedBy)
	assert.Nil(t, r.ApprovalDeadline)

	var stale *StaleStateError
	require.ErrorAs(t, r.Confirm(actor), &stale)
}

func TestDeclineRecordsReason(t *testing.T) {
	r := testReservation(StatusRequested)
	actor := uuid.New()
	require.NoError(t, r.Decline(actor, "double booked"))
	assert.Equal(t, StatusDeclined, r.Status)
	assert.Equal(t, "double booked", r.DeclineReason)
	assert.False(t, r.AutoExpired)

	var stale *StaleStateError
	require.ErrorAs(t, r.Decline(actor, "again"), &stale)
}

func TestWithdrawFromEveryLiveState(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	for _, status := range []Status{StatusRequested, StatusQueued, StatusConfirmed} {
		r := testReservation(status)
		require.NoError(t, r.Withdraw("changed plans", now), "withdraw from %s", status)
		assert.Equal(t, StatusWithdrawn, r.Status)
		assert.Equal(t, "changed plans", r.WithdrawReason)
	}
}

func TestWithdrawRejectedAfterSlotEnd(t *testing.T) {
	r := testReservation(StatusConfirmed)
	after := r.EndTime.Add(time.Minute)

	var stale *StaleStateError
	require.ErrorAs(t, r.Withdraw("", after), &stale)
	assert.Equal(t, StatusConfirmed, r.Status)
}

func TestExpireMarksAutoExpired(t *testing.T) {
	for _, status := range []Status{StatusRequested, StatusQueued} {
		r := testReservation(status)
		require.NoError(t, r.Expire())
		assert.Equal(t, StatusDeclined, r.Status)
		assert.True(t, r.AutoExpired)
		assert.Nil(t, r.DecidedBy, "the sweep is not a decider")
	}

	// Second expiry attempt is stale, keeping the sweep idempotent.
	r := testReservation(StatusRequested)
	require.NoError(t, r.Expire())
	var stale *StaleStateError
	require.ErrorAs(t, r.Expire(), &stale)
}

func TestPromoteSetsDeadlineAndToleratesRepeats(t *testing.T) {
	r := testReservation(StatusQueued)
	deadline := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, r.Promote(deadline))
	assert.Equal(t, StatusRequested, r.Status)
	require.NotNil(t, r.ApprovalDeadline)
	assert.Equal(t, deadline, *r.ApprovalDeadline)

	// Promoting an already promoted record is a no-op, not an error.
	require.NoError(t, r.Promote(deadline.Add(time.Hour)))
	assert.Equal(t, deadline, *r.ApprovalDeadline)

	var stale *StaleStateError
	confirmed := testReservation(StatusConfirmed)
	require.ErrorAs(t, confirmed.Promote(deadline), &stale)
}

func TestDemoteClearsDeadline(t *testing.T) {
	r := testReservation(StatusRequested)
	deadline := time.Now().Add(time.Hour)
	r.ApprovalDeadline = &deadline

	require.NoError(t, r.Demote())
	assert.Equal(t, StatusQueued, r.Status)
	assert.Nil(t, r.ApprovalDeadline)

	var stale *StaleStateError
	require.ErrorAs(t, r.Demote(), &stale)
}

func TestRequeueFromConfirmedDropsDecision(t *testing.T) {
	r := testReservation(StatusConfirmed)
	actor := uuid.New()
	r.DecidedBy = &actor

	require.NoError(t, r.Requeue())
	assert.Equal(t, StatusQueued, r.Status)
	assert.Nil(t, r.DecidedBy)

	var stale *StaleStateError
	require.ErrorAs(t, r.Requeue(), &stale)
}
