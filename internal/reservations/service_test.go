package reservations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"reservly/internal/resources"
	"reservly/pkg/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is a thread-safe in-memory Repository used across the engine
// tests. It hands out copies so callers mutate nothing until Update.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]Reservation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[uuid.UUID]Reservation)}
}

func (m *memoryRepo) Create(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryRepo) Update(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; !ok {
		return ErrNotFound
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *memoryRepo) ListForSlot(_ context.Context, resourceID uuid.UUID, date time.Time, statuses []Status) ([]Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[Status]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	var out []Reservation
	for _, row := range m.rows {
		if row.ResourceID != resourceID || !DateOnly(row.Date).Equal(DateOnly(date)) {
			continue
		}
		if _, ok := want[row.Status]; ok {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) ListExpiredRequested(_ context.Context, now time.Time, limit int) ([]Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Reservation
	for _, row := range m.rows {
		if row.Status == StatusRequested && row.ApprovalDeadline != nil && row.ApprovalDeadline.Before(now) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovalDeadline.Before(*out[j].ApprovalDeadline) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) ListStaleQueued(_ context.Context, today time.Time, limit int) ([]Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Reservation
	for _, row := range m.rows {
		if row.Status == StatusQueued && DateOnly(row.Date).Before(DateOnly(today)) {
			out = append(out, row)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Reservation
	for _, row := range m.rows {
		if row.RequesterID == requesterID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAdmin(_ context.Context, filter AdminFilter) ([]Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Reservation
	for _, row := range m.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.ResourceID != nil && row.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.Date != nil && !DateOnly(row.Date).Equal(DateOnly(*filter.Date)) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memoryRepo) ListConfirmedDates(_ context.Context, resourceID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]time.Time)
	for _, row := range m.rows {
		if row.ResourceID != resourceID || row.Status != StatusConfirmed {
			continue
		}
		d := DateOnly(row.Date)
		if d.Before(DateOnly(from)) || d.After(DateOnly(to)) {
			continue
		}
		seen[d.Format("2006-01-02")] = d
	}
	var out []time.Time
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

type fakeBlockedDates struct {
	mu      sync.Mutex
	blocked map[string]struct{}
}

func newFakeBlockedDates() *fakeBlockedDates {
	return &fakeBlockedDates{blocked: make(map[string]struct{})}
}

func (f *fakeBlockedDates) block(date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocked[DateOnly(date).Format("2006-01-02")] = struct{}{}
}

func (f *fakeBlockedDates) IsBlocked(_ context.Context, _ uuid.UUID, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blocked[DateOnly(date).Format("2006-01-02")]
	return ok, nil
}

func (f *fakeBlockedDates) UpcomingBlockedDates(_ context.Context, _ uuid.UUID, from time.Time) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []time.Time
	for key := range f.blocked {
		d, _ := time.ParseInLocation("2006-01-02", key, time.UTC)
		if !d.Before(DateOnly(from)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

type fakeCatalog struct {
	resource *resources.Resource
}

func (f *fakeCatalog) GetResource(_ context.Context, id uuid.UUID) (*resources.Resource, error) {
	if f.resource == nil || f.resource.ID != id {
		return nil, fmt.Errorf("resource %s not found", id)
	}
	return f.resource, nil
}

// captureDispatcher records dispatched effects for assertion.
type captureDispatcher struct {
	mu      sync.Mutex
	effects []Effect
}

func (d *captureDispatcher) Dispatch(_ context.Context, effects []Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.effects = append(d.effects, effects...)
}

func (d *captureDispatcher) ofKind(kind EffectKind) []Effect {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Effect
	for _, e := range d.effects {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type staticAdmins struct {
	ids []uuid.UUID
}

func (s *staticAdmins) AdminRecipientIDs(_ context.Context) ([]uuid.UUID, error) {
	return s.ids, nil
}

// engineFixture bundles the service with its fakes and a controllable clock.
type engineFixture struct {
	svc        *service
	repo       *memoryRepo
	blocked    *fakeBlockedDates
	dispatcher *captureDispatcher
	hall       *resources.Resource
	clock      time.Time
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	hall := &resources.Resource{
		ID:       uuid.New(),
		Name:     "Main Hall",
		Kind:     resources.KindHall,
		Capacity: 120,
		IsActive: true,
	}
	f := &engineFixture{
		repo:       newMemoryRepo(),
		blocked:    newFakeBlockedDates(),
		dispatcher: &captureDispatcher{},
		hall:       hall,
		// A Monday morning, far from weekends.
		clock: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	}

	cal := calendar.New()
	svc := NewService(f.repo, cal, f.blocked, &fakeCatalog{resource: hall},
		f.dispatcher, &staticAdmins{ids: []uuid.UUID{uuid.New()}})
	f.svc = svc.(*service)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *engineFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// submitInput builds a valid hall submission for the fixture's resource on
// the day after the fixture clock.
func (f *engineFixture) submitInput(class Class, startHour, endHour int) SubmitInput {
	date := DateOnly(f.clock.AddDate(0, 0, 1))
	input := SubmitInput{
		ResourceID:    f.hall.ID,
		RequesterID:   uuid.New(),
		RequesterName: "Dana Requester",
		ContactEmail:  "dana@example.com",
		ContactPhone:  "555-0100",
		Class:         class,
		Date:          date,
		Window: Window{
			Start: date.Add(time.Duration(startHour) * time.Hour),
			End:   date.Add(time.Duration(endHour) * time.Hour),
		},
		Hall: &HallDetails{Purpose: "team offsite", ExpectedHeadcount: 40},
	}
	if class == ClassPriority {
		input.DelegateName = "Morgan Delegate"
	}
	return input
}

func TestSubmitFirstRequestHoldsSlot(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	result, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	res := result.Reservation
	assert.Equal(t, StatusRequested, res.Status)
	assert.Equal(t, 0, result.QueuePosition)
	require.NotNil(t, res.ApprovalDeadline)
	assert.Equal(t, f.clock.Add(calendar.ApprovalWindow), *res.ApprovalDeadline)

	// Admins are told about the new claim.
	assert.NotEmpty(t, f.dispatcher.ofKind(EffectAdminNewRequest))
}

func TestSubmitOverlappingRequestsQueueInArrivalOrder(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, first.Reservation.Status)

	// The first queuer behind the holder is position 1; the holder is what
	// the queue waits on, not a queue member.
	f.advance(time.Minute)
	second, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 11, 13))
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, second.Reservation.Status)
	assert.Equal(t, 1, second.QueuePosition)
	assert.Nil(t, second.Reservation.ApprovalDeadline)

	// 10-11 does not overlap 11-13, so it queues behind the holder alone.
	f.advance(time.Minute)
	third, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 11))
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, third.Reservation.Status)
	assert.Equal(t, 1, third.QueuePosition)

	// Queued submitters get a standby notice, not an admin fan-out.
	assert.Len(t, f.dispatcher.ofKind(EffectStandby), 2)
}

func TestSubmitDisjointWindowsDoNotContend(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	morning, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 9, 11))
	require.NoError(t, err)
	evening, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 11, 13))
	require.NoError(t, err)

	// Shared boundary 11:00 does not overlap under half-open windows.
	assert.Equal(t, StatusRequested, morning.Reservation.Status)
	assert.Equal(t, StatusRequested, evening.Reservation.Status)
}

func TestSubmitAgainstConfirmedStandardBlocksWithDisclosure(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	_, err = f.svc.Submit(ctx, f.submitInput(ClassStandard, 11, 13))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, holder.Reservation.ID, conflict.Blocker.ReservationID)
	assert.Equal(t, ClassStandard, conflict.Blocker.Class)
	// Standard blockers disclose the requester's name and nothing more.
	assert.Equal(t, "Dana Requester", conflict.Blocker.Name)
	assert.Empty(t, conflict.Blocker.Contact)
}

func TestPrioritySubmitQueuesPastConfirmedStandard(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	// A standard queuer arrives first.
	f.advance(time.Minute)
	_, err = f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// Priority is waitlisted instead of rejected, despite arriving later.
	f.advance(time.Minute)
	priority, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, priority.Reservation.Status)
	assert.Equal(t, 1, priority.QueuePosition)
}

func TestQueuedPlacementDisclosesConfirmedHolder(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	priority, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, priority.Reservation.Status)

	// The queued outcome names the confirmed holder it waits on.
	require.NotNil(t, priority.BlockedBy)
	assert.Equal(t, holder.Reservation.ID, priority.BlockedBy.ReservationID)
	assert.Equal(t, ClassStandard, priority.BlockedBy.Class)
	assert.Equal(t, "Dana Requester", priority.BlockedBy.Name)
	assert.Empty(t, priority.BlockedBy.Contact)

	// The standby notice carries the same disclosure.
	standby := f.dispatcher.ofKind(EffectStandby)
	require.NotEmpty(t, standby)
	assert.Equal(t, priority.BlockedBy, standby[len(standby)-1].Context["blocked_by"])
}

func TestPrioritySubmitHardBlockedByConfirmedPriority(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	_, err = f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ClassPriority, conflict.Blocker.Class)
	// Priority blockers disclose the delegate and contact address.
	assert.Equal(t, "Morgan Delegate", conflict.Blocker.Name)
	assert.Equal(t, "dana@example.com", conflict.Blocker.Contact)
}

func TestSubmitBlockedDateWins(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	input := f.submitInput(ClassStandard, 10, 12)
	f.blocked.block(input.Date)

	_, err := f.svc.Submit(ctx, input)
	var blocked *BlockedDateError
	require.ErrorAs(t, err, &blocked)

	// No record, no effects.
	list, _ := f.repo.ListAdmin(ctx, AdminFilter{})
	assert.Empty(t, list)
	assert.Empty(t, f.dispatcher.effects)
}

func TestSubmitValidation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
		field  string
	}{
		{"inverted window", func(in *SubmitInput) { in.Window.Start, in.Window.End = in.Window.End, in.Window.Start }, "window"},
		{"too short", func(in *SubmitInput) { in.Window.End = in.Window.Start.Add(5 * time.Minute) }, "window"},
		{"priority without delegate", func(in *SubmitInput) { in.Class = ClassPriority; in.DelegateName = "" }, "delegate_name"},
		{"missing hall details", func(in *SubmitInput) { in.Hall = nil }, "hall"},
		{"wrong payload kind", func(in *SubmitInput) { in.Vehicle = &VehicleDetails{Destination: "airport"} }, "vehicle"},
		{"headcount over capacity", func(in *SubmitInput) { in.Hall.ExpectedHeadcount = 500 }, "expected_headcount"},
		{"past window", func(in *SubmitInput) {
			in.Date = DateOnly(f.clock.AddDate(0, 0, -1))
			in.Window.Start = in.Date.Add(10 * time.Hour)
			in.Window.End = in.Date.Add(12 * time.Hour)
		}, "window"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := f.submitInput(ClassStandard, 10, 12)
			tc.mutate(&input)

			_, err := f.svc.Submit(ctx, input)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestApproveConfirmsAndLeavesDisjointHoldersAlone(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Two non-overlapping REQUESTED holders, then one that overlaps the first.
	a, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	b, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 12, 14))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, a.Reservation.ID, uuid.New())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, a.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Nil(t, got.ApprovalDeadline)

	// The disjoint holder is untouched.
	other, err := f.svc.Get(ctx, b.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, other.Status)

	assert.Len(t, f.dispatcher.ofKind(EffectApproved), 1)
}

func TestApproveSendsStandbyToQueuedContenders(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	before := len(f.dispatcher.ofKind(EffectStandby))
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	// The queued contender stays queued and hears about the confirmation.
	still, err := f.svc.Get(ctx, queued.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, still.Status)

	standby := f.dispatcher.ofKind(EffectStandby)
	require.Len(t, standby, before+1)
	assert.Equal(t, queued.Reservation.RequesterID, standby[len(standby)-1].RecipientID)
}

func TestApproveIsRejectedForNonRequested(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	a, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, queued.Reservation.ID, uuid.New())
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, StatusQueued, stale.Current)

	// Double approval is also stale.
	_, err = f.svc.Approve(ctx, a.Reservation.ID, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, a.Reservation.ID, uuid.New())
	require.ErrorAs(t, err, &stale)
}

func TestDeclinePromotesBestQueuedContender(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	f.advance(time.Minute)
	standard, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	f.advance(time.Minute)
	priority, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)

	_, err = f.svc.Decline(ctx, holder.Reservation.ID, uuid.New(), "double booked")
	require.NoError(t, err)

	// Priority wins the vacated window despite arriving after the standard.
	promoted, err := f.svc.Get(ctx, priority.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, promoted.Status)
	require.NotNil(t, promoted.ApprovalDeadline)

	waiting, err := f.svc.Get(ctx, standard.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, waiting.Status)

	assert.Len(t, f.dispatcher.ofKind(EffectPromoted), 1)
	assert.Len(t, f.dispatcher.ofKind(EffectDeclined), 1)
}

func TestWithdrawConfirmedPromotesAndNotifiesAdmins(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, queued.Reservation.Status)

	_, err = f.svc.Withdraw(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, "plans changed")
	require.NoError(t, err)

	promoted, err := f.svc.Get(ctx, queued.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, promoted.Status)

	assert.Len(t, f.dispatcher.ofKind(EffectAdminWithdrawn), 1)
	assert.Len(t, f.dispatcher.ofKind(EffectPromoted), 1)
}

func TestWithdrawQueuedVacatesNothing(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	behind, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, queued.Reservation.ID, queued.Reservation.RequesterID, false, "")
	require.NoError(t, err)

	// The reservation behind it stays queued; no window was freed.
	still, err := f.svc.Get(ctx, behind.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, still.Status)
	assert.Empty(t, f.dispatcher.ofKind(EffectPromoted))
}

func TestWithdrawPermissions(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, holder.Reservation.ID, uuid.New(), false, "")
	assert.ErrorIs(t, err, ErrNotPermitted)

	// Staff can withdraw on the requester's behalf.
	_, err = f.svc.Withdraw(ctx, holder.Reservation.ID, uuid.New(), true, "requested by phone")
	assert.NoError(t, err)
}

func TestWithdrawAfterSlotElapsedIsStale(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	f.advance(48 * time.Hour)
	_, err = f.svc.Withdraw(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, "")
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
}

func TestRescheduleToFreeWindowKeepsStatusAndRefreshesDeadline(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	originalDeadline := *holder.Reservation.ApprovalDeadline

	f.advance(2 * time.Hour)
	newDate := DateOnly(f.clock.AddDate(0, 0, 2))
	res, err := f.svc.Reschedule(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, RescheduleInput{
		Date:   newDate,
		Window: Window{Start: newDate.Add(14 * time.Hour), End: newDate.Add(16 * time.Hour)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusRequested, res.Status)
	assert.True(t, res.Date.Equal(newDate))
	require.NotNil(t, res.ApprovalDeadline)
	assert.True(t, res.ApprovalDeadline.After(originalDeadline))
}

func TestRescheduleIntoContentionRequeues(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Confirmed holder at 10-12; a second request holds 14-16.
	first, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, first.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	mover, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 14, 16))
	require.NoError(t, err)
	require.Equal(t, StatusRequested, mover.Reservation.Status)

	// Priority rescheduling onto the confirmed standard window queues past it.
	date := DateOnly(mover.Reservation.Date)
	res, err := f.svc.Reschedule(ctx, mover.Reservation.ID, mover.Reservation.RequesterID, false, RescheduleInput{
		Date:   date,
		Window: Window{Start: date.Add(10 * time.Hour), End: date.Add(12 * time.Hour)},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, res.Status)
	assert.Nil(t, res.ApprovalDeadline)
}

func TestRescheduleHardBlockLeavesRecordUntouched(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, first.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	mover, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 14, 16))
	require.NoError(t, err)

	date := DateOnly(mover.Reservation.Date)
	_, err = f.svc.Reschedule(ctx, mover.Reservation.ID, mover.Reservation.RequesterID, false, RescheduleInput{
		Date:   date,
		Window: Window{Start: date.Add(10 * time.Hour), End: date.Add(12 * time.Hour)},
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// The mover still holds its original window.
	got, err := f.svc.Get(ctx, mover.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, got.Status)
	assert.Equal(t, date.Add(14*time.Hour), got.StartTime)
}

func TestRescheduleVacatedWindowPromotesQueued(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	f.advance(time.Minute)
	newDate := DateOnly(f.clock.AddDate(0, 0, 2))
	_, err = f.svc.Reschedule(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, RescheduleInput{
		Date:   newDate,
		Window: Window{Start: newDate.Add(10 * time.Hour), End: newDate.Add(12 * time.Hour)},
	})
	require.NoError(t, err)

	promoted, err := f.svc.Get(ctx, queued.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, promoted.Status)
}

func TestRescheduleEnforcesSubmissionWindowRules(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	// A window too short to submit is too short to reschedule into.
	date := DateOnly(holder.Reservation.Date)
	_, err = f.svc.Reschedule(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, RescheduleInput{
		Date:   date,
		Window: Window{Start: date.Add(14 * time.Hour), End: date.Add(14*time.Hour + 5*time.Minute)},
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "window", validation.Field)

	// The record keeps its original window.
	got, err := f.svc.Get(ctx, holder.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, date.Add(10*time.Hour), got.StartTime)
}

func TestRescheduleQueuedIsStale(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	date := DateOnly(queued.Reservation.Date)
	_, err = f.svc.Reschedule(ctx, queued.Reservation.ID, queued.Reservation.RequesterID, false, RescheduleInput{
		Date:   date,
		Window: Window{Start: date.Add(15 * time.Hour), End: date.Add(16 * time.Hour)},
	})
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
}

func TestSweepExpiresOverdueAndPromotes(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	// Push past the approval deadline but not past the slot itself.
	f.advance(25 * time.Hour)
	result, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.Promoted)

	expired, err := f.svc.Get(ctx, holder.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, expired.Status)
	assert.True(t, expired.AutoExpired)
	assert.Nil(t, expired.DecidedBy)

	promoted, err := f.svc.Get(ctx, queued.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, promoted.Status)
	require.NotNil(t, promoted.ApprovalDeadline)
	assert.True(t, promoted.ApprovalDeadline.After(f.clock))
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	f.advance(25 * time.Hour)
	first, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Expired)

	second, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Expired)
	assert.Equal(t, 0, second.StaleQueued)
}

func TestSweepCleansStaleQueuedWithoutPromotion(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	f.advance(time.Minute)
	queued, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)

	// Move well past the reservation date; the queue entry is dead weight.
	f.advance(72 * time.Hour)
	result, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.StaleQueued)
	assert.Equal(t, 0, result.Promoted)

	got, err := f.svc.Get(ctx, queued.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, got.Status)
	assert.True(t, got.AutoExpired)
}

func TestConcurrentSubmitsYieldExactlyOneHolder(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = result.Reservation.ID
		}(i)
	}
	wg.Wait()

	requested, queued := 0, 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		res, err := f.svc.Get(ctx, ids[i])
		require.NoError(t, err)
		switch res.Status {
		case StatusRequested:
			requested++
		case StatusQueued:
			queued++
		}
	}
	assert.Equal(t, 1, requested)
	assert.Equal(t, n-1, queued)
}

func TestConcurrentVacationPromotesAtMostOnce(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)

	// The deadline elapses, then the requester withdraws while the sweep runs.
	f.advance(25 * time.Hour)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.svc.Withdraw(ctx, holder.Reservation.ID, holder.Reservation.RequesterID, false, "too late")
	}()
	go func() {
		defer wg.Done()
		_, _ = f.svc.SweepExpired(ctx)
	}()
	wg.Wait()

	// Exactly one vacation happened: the holder is terminal exactly once and
	// the queue produced exactly one REQUESTED record.
	terminal, err := f.svc.Get(ctx, holder.Reservation.ID)
	require.NoError(t, err)
	assert.True(t, terminal.Status.IsTerminal())

	assert.Len(t, f.dispatcher.ofKind(EffectPromoted), 1)
}

func TestQueuePositionReflectsClassAndArrival(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	standard, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	f.advance(time.Minute)
	priority, err := f.svc.Submit(ctx, f.submitInput(ClassPriority, 10, 12))
	require.NoError(t, err)

	// Priority heads the queue despite arriving after the standard queuer.
	pos, err := f.svc.QueuePosition(ctx, priority.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = f.svc.QueuePosition(ctx, standard.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestUnavailableDatesMergesConfirmedAndBlocked(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	holder, err := f.svc.Submit(ctx, f.submitInput(ClassStandard, 10, 12))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, holder.Reservation.ID, uuid.New())
	require.NoError(t, err)

	blockedDate := DateOnly(f.clock.AddDate(0, 0, 5))
	f.blocked.block(blockedDate)

	dates, err := f.svc.UnavailableDates(ctx, f.hall.ID, f.clock, f.clock.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(DateOnly(holder.Reservation.Date)))
	assert.True(t, dates[1].Equal(blockedDate))
}
