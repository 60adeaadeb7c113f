package reservations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reservly/internal/resources"
	"reservly/pkg/calendar"
	"reservly/pkg/logger"

	"github.com/google/uuid"
)

// sweepBatchSize bounds one sweep pass; the next tick picks up the rest.
const sweepBatchSize = 200

// BlockedDateChecker is the administrative calendar consulted before any
// record is created or moved. A blocked date wins over all queueing logic.
type BlockedDateChecker interface {
	IsBlocked(ctx context.Context, resourceID uuid.UUID, date time.Time) (bool, error)
	UpcomingBlockedDates(ctx context.Context, resourceID uuid.UUID, from time.Time) ([]time.Time, error)
}

// Catalog resolves the bookable resource a submission targets.
type Catalog interface {
	GetResource(ctx context.Context, id uuid.UUID) (*resources.Resource, error)
}

// SubmitInput carries everything needed to create a reservation. Date is the
// calendar day; the window's times must fall on that day.
type SubmitInput struct {
	ResourceID    uuid.UUID
	RequesterID   uuid.UUID
	RequesterName string
	ContactEmail  string
	ContactPhone  string
	DelegateName  string
	Class         Class
	Date          time.Time
	Window        Window
	Hall          *HallDetails
	Vehicle       *VehicleDetails
}

// SubmitResult is the submission outcome: the stored record plus its queue
// rank when it entered QUEUED (0 when it holds the slot as REQUESTED).
// BlockedBy is set when the queued placement was forced by a Confirmed
// holder, carrying that holder's disclosable identity.
type SubmitResult struct {
	Reservation   *Reservation    `json:"reservation"`
	QueuePosition int             `json:"queue_position,omitempty"`
	BlockedBy     *BlockerSummary `json:"blocked_by,omitempty"`
}

// RescheduleInput is the target slot of a reschedule.
type RescheduleInput struct {
	Date   time.Time
	Window Window
}

// SweepResult summarizes one expiry pass.
type SweepResult struct {
	Expired     int `json:"expired"`
	Promoted    int `json:"promoted"`
	StaleQueued int `json:"stale_queued"`
}

// Service is the reservation engine. Every mutating operation runs its
// read-decide-write sequence under the (resource, date) slot mutex and
// returns only after the lock is released and any owed notifications have
// been handed to the dispatcher.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	Approve(ctx context.Context, id, actor uuid.UUID) (*Reservation, error)
	Decline(ctx context.Context, id, actor uuid.UUID, reason string) (*Reservation, error)
	Withdraw(ctx context.Context, id, actor uuid.UUID, actorIsStaff bool, reason string) (*Reservation, error)
	Reschedule(ctx context.Context, id, actor uuid.UUID, actorIsStaff bool, input RescheduleInput) (*Reservation, error)
	SweepExpired(ctx context.Context) (*SweepResult, error)

	Get(ctx context.Context, id uuid.UUID) (*Reservation, error)
	QueuePosition(ctx context.Context, id uuid.UUID) (int, error)
	ListForRequester(ctx context.Context, requesterID uuid.UUID) ([]Reservation, error)
	ListAdmin(ctx context.Context, filter AdminFilter) ([]Reservation, error)
	UnavailableDates(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]time.Time, error)
}

// service implements the Service interface
type service struct {
	repo       Repository
	queue      *QueueManager
	locks      *slotLocker
	cal        *calendar.BusinessCalendar
	blocked    BlockedDateChecker
	catalog    Catalog
	dispatcher Dispatcher
	admins     AdminResolver

	// now is swappable so deadline and sweep behavior is testable.
	now func() time.Time
}

// NewService wires the reservation engine. Dispatcher and AdminResolver may
// be nil; effects are then dropped.
func NewService(repo Repository, cal *calendar.BusinessCalendar, blocked BlockedDateChecker, catalog Catalog, dispatcher Dispatcher, admins AdminResolver) Service {
	return &service{
		repo:       repo,
		queue:      NewQueueManager(repo, cal),
		locks:      newSlotLocker(),
		cal:        cal,
		blocked:    blocked,
		catalog:    catalog,
		dispatcher: dispatcher,
		admins:     admins,
		now:        time.Now,
	}
}

// dispatch hands effects to the dispatcher. Callers invoke it only after the
// slot mutex has been released.
func (s *service) dispatch(ctx context.Context, effects []Effect) {
	if s.dispatcher == nil || len(effects) == 0 {
		return
	}
	s.dispatcher.Dispatch(ctx, effects)
}

// adminFanOut expands a kind into one effect per staff recipient.
func (s *service) adminFanOut(ctx context.Context, kind EffectKind, r *Reservation, extra map[string]interface{}) []Effect {
	if s.admins == nil {
		return nil
	}
	ids, err := s.admins.AdminRecipientIDs(ctx)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to resolve admin recipients", err, nil)
		return nil
	}
	effects := make([]Effect, 0, len(ids))
	payload := reservationContext(r, extra)
	for _, id := range ids {
		effects = append(effects, Effect{RecipientID: id, Kind: kind, Context: payload})
	}
	return effects
}

func (s *service) validateSubmit(input *SubmitInput, resource *resources.Resource) error {
	if !input.Class.IsValid() {
		return &ValidationError{Field: "class", Reason: "must be STANDARD or PRIORITY"}
	}
	if input.Class == ClassPriority && input.DelegateName == "" {
		return &ValidationError{Field: "delegate_name", Reason: "required for priority requests"}
	}
	if err := s.validateWindow(input.Date, input.Window); err != nil {
		return err
	}
	if !resource.IsActive {
		return &ValidationError{Field: "resource_id", Reason: "resource is not active"}
	}
	switch resource.Kind {
	case resources.KindHall:
		if input.Hall == nil {
			return &ValidationError{Field: "hall", Reason: "hall details are required"}
		}
		if input.Vehicle != nil {
			return &ValidationError{Field: "vehicle", Reason: "not applicable for hall reservations"}
		}
		if input.Hall.ExpectedHeadcount > resource.Capacity {
			return &ValidationError{Field: "expected_headcount", Reason: fmt.Sprintf("exceeds hall capacity of %d", resource.Capacity)}
		}
	case resources.KindVehicle:
		if input.Vehicle == nil {
			return &ValidationError{Field: "vehicle", Reason: "vehicle details are required"}
		}
		if input.Hall != nil {
			return &ValidationError{Field: "hall", Reason: "not applicable for vehicle reservations"}
		}
		if input.Vehicle.PassengerCount > resource.Capacity {
			return &ValidationError{Field: "passenger_count", Reason: fmt.Sprintf("exceeds vehicle capacity of %d", resource.Capacity)}
		}
	}
	return nil
}

// validateWindow holds the window rules shared by submissions and
// reschedules; a reschedule may not land a window a fresh submission
// would reject.
func (s *service) validateWindow(date time.Time, w Window) error {
	if !w.IsValid() {
		return &ValidationError{Field: "window", Reason: "end must be after start"}
	}
	if w.End.Sub(w.Start) < 15*time.Minute {
		return &ValidationError{Field: "window", Reason: "must span at least 15 minutes"}
	}
	if !DateOnly(w.Start).Equal(DateOnly(date)) {
		return &ValidationError{Field: "window", Reason: "must fall on the reservation date"}
	}
	if w.Start.Before(s.now()) {
		return &ValidationError{Field: "window", Reason: "must be in the future"}
	}
	return nil
}

// placement is the conflict-check verdict for a window entering a slot.
// blocker is a Confirmed holder the request cannot pass; heldBy is a
// Confirmed holder the request queues behind instead.
type placement struct {
	queued  bool
	blocker *Reservation
	heldBy  *Reservation
}

// classify decides where a window lands among the slot's existing records,
// excluding the given id (uuid.Nil for submissions). Caller holds the slot
// mutex. Priority requests queue past Confirmed blockers only when every
// blocker is Standard; a single Priority blocker hard-blocks everyone.
func (s *service) classify(ctx context.Context, resourceID uuid.UUID, date time.Time, w Window, class Class, exclude uuid.UUID) (*placement, error) {
	confirmed, err := s.repo.ListForSlot(ctx, resourceID, date, []Status{StatusConfirmed})
	if err != nil {
		return nil, err
	}
	blockers := FilterOverlapping(confirmed, w, exclude)
	if len(blockers) > 0 {
		if class == ClassPriority {
			allStandard := true
			for i := range blockers {
				if blockers[i].Class == ClassPriority {
					allStandard = false
					break
				}
			}
			if allStandard {
				return &placement{queued: true, heldBy: &blockers[0]}, nil
			}
		}
		return &placement{blocker: &blockers[0]}, nil
	}

	active, err := s.repo.ListForSlot(ctx, resourceID, date, activeStatuses)
	if err != nil {
		return nil, err
	}
	if len(FilterOverlapping(active, w, exclude)) > 0 {
		return &placement{queued: true}, nil
	}
	return &placement{}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	resource, err := s.catalog.GetResource(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}
	if err := s.validateSubmit(&input, resource); err != nil {
		return nil, err
	}

	isBlocked, err := s.blocked.IsBlocked(ctx, input.ResourceID, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocked dates: %w", err)
	}
	if isBlocked {
		return nil, &BlockedDateError{Date: input.Date}
	}

	now := s.now()
	res := &Reservation{
		ID:            uuid.New(),
		ResourceID:    input.ResourceID,
		Kind:          resource.Kind,
		RequesterID:   input.RequesterID,
		RequesterName: input.RequesterName,
		ContactEmail:  input.ContactEmail,
		ContactPhone:  input.ContactPhone,
		DelegateName:  input.DelegateName,
		Class:         input.Class,
		Date:          DateOnly(input.Date),
		StartTime:     input.Window.Start,
		EndTime:       input.Window.End,
		Hall:          input.Hall,
		Vehicle:       input.Vehicle,
		CreatedAt:     now,
	}

	var effects []Effect
	result := &SubmitResult{Reservation: res}

	unlock := s.locks.Lock(res.Slot())
	err = func() error {
		verdict, err := s.classify(ctx, res.ResourceID, res.Date, res.Window(), res.Class, uuid.Nil)
		if err != nil {
			return err
		}
		switch {
		case verdict.blocker != nil:
			return &ConflictError{Blocker: NewBlockerSummary(verdict.blocker)}
		case verdict.queued:
			res.Status = StatusQueued
		default:
			res.Status = StatusRequested
			deadline := s.cal.Deadline(now)
			res.ApprovalDeadline = &deadline
		}

		if err := s.repo.Create(ctx, res); err != nil {
			return err
		}

		if res.Status == StatusQueued {
			// Positions are ranks within the queue; a REQUESTED slot holder
			// is what the queue waits on, not part of it.
			queued, err := s.repo.ListForSlot(ctx, res.ResourceID, res.Date, []Status{StatusQueued})
			if err != nil {
				return err
			}
			contenders := FilterOverlapping(queued, res.Window(), uuid.Nil)
			result.QueuePosition = QueuePosition(contenders, res.ID)
			standbyCtx := map[string]interface{}{"queue_position": result.QueuePosition}
			if verdict.heldBy != nil {
				summary := NewBlockerSummary(verdict.heldBy)
				result.BlockedBy = &summary
				standbyCtx["blocked_by"] = result.BlockedBy
			}
			effects = append(effects, Effect{
				RecipientID: res.RequesterID,
				Kind:        EffectStandby,
				Context:     reservationContext(res, standbyCtx),
			})
		} else {
			effects = append(effects, s.adminFanOut(ctx, EffectAdminNewRequest, res, nil)...)
		}
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogReservationSubmitted(ctx, res.ID.String(), res.ResourceID.String(), res.RequesterID.String(), string(res.Status))
	s.dispatch(ctx, effects)
	return result, nil
}

func (s *service) Approve(ctx context.Context, id, actor uuid.UUID) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var effects []Effect
	unlock := s.locks.Lock(res.Slot())
	err = func() error {
		res, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		prev := res.Status
		if err := res.Confirm(actor); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		logger.GetDefault().LogReservationTransition(ctx, res.ID.String(), string(prev), string(res.Status))

		// Every other active overlapping contender now stands behind the
		// confirmation. REQUESTED rivals lose their claim and rejoin the
		// queue; already-queued contenders keep their place, but both get
		// the standby notice.
		active, err := s.repo.ListForSlot(ctx, res.ResourceID, res.Date, activeStatuses)
		if err != nil {
			return err
		}
		rivals := FilterOverlapping(active, res.Window(), res.ID)
		for i := range rivals {
			if rivals[i].Status == StatusRequested {
				if err := rivals[i].Demote(); err != nil {
					return err
				}
				if err := s.repo.Update(ctx, &rivals[i]); err != nil {
					return err
				}
			}
			effects = append(effects, Effect{
				RecipientID: rivals[i].RequesterID,
				Kind:        EffectStandby,
				Context:     reservationContext(&rivals[i], nil),
			})
		}

		effects = append(effects, Effect{
			RecipientID: res.RequesterID,
			Kind:        EffectApproved,
			Context:     reservationContext(res, nil),
		})
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, effects)
	return res, nil
}

func (s *service) Decline(ctx context.Context, id, actor uuid.UUID, reason string) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var effects []Effect
	unlock := s.locks.Lock(res.Slot())
	err = func() error {
		res, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		vacated := VacatedSlot{
			ResourceID: res.ResourceID,
			Date:       res.Date,
			Window:     res.Window(),
			VacatedID:  res.ID,
		}
		prev := res.Status
		if err := res.Decline(actor, reason); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		logger.GetDefault().LogReservationTransition(ctx, res.ID.String(), string(prev), string(res.Status))

		effects = append(effects, Effect{
			RecipientID: res.RequesterID,
			Kind:        EffectDeclined,
			Context:     reservationContext(res, map[string]interface{}{"reason": reason}),
		})

		_, promoEffects, err := s.queue.Promote(ctx, vacated, s.now())
		if err != nil {
			return err
		}
		effects = append(effects, promoEffects...)
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, effects)
	return res, nil
}

func (s *service) Withdraw(ctx context.Context, id, actor uuid.UUID, actorIsStaff bool, reason string) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RequesterID != actor && !actorIsStaff {
		return nil, ErrNotPermitted
	}

	var effects []Effect
	unlock := s.locks.Lock(res.Slot())
	err = func() error {
		res, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Only a slot-holding state frees a window for promotion; a queued
		// withdrawal vacates nothing.
		wasHolding := res.Status == StatusRequested || res.Status == StatusConfirmed
		wasConfirmed := res.Status == StatusConfirmed
		vacated := VacatedSlot{
			ResourceID: res.ResourceID,
			Date:       res.Date,
			Window:     res.Window(),
			VacatedID:  res.ID,
		}
		prev := res.Status
		if err := res.Withdraw(reason, s.now()); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		logger.GetDefault().LogReservationTransition(ctx, res.ID.String(), string(prev), string(res.Status))

		if wasConfirmed {
			effects = append(effects, s.adminFanOut(ctx, EffectAdminWithdrawn, res, map[string]interface{}{"reason": reason})...)
		}
		if wasHolding {
			_, promoEffects, err := s.queue.Promote(ctx, vacated, s.now())
			if err != nil {
				return err
			}
			effects = append(effects, promoEffects...)
		}
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, effects)
	return res, nil
}

func (s *service) Reschedule(ctx context.Context, id, actor uuid.UUID, actorIsStaff bool, input RescheduleInput) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RequesterID != actor && !actorIsStaff {
		return nil, ErrNotPermitted
	}

	if err := s.validateWindow(input.Date, input.Window); err != nil {
		return nil, err
	}

	isBlocked, err := s.blocked.IsBlocked(ctx, res.ResourceID, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocked dates: %w", err)
	}
	if isBlocked {
		return nil, &BlockedDateError{Date: input.Date}
	}

	oldSlot := res.Slot()
	newSlot := Slot{ResourceID: res.ResourceID, Date: DateOnly(input.Date)}

	var effects []Effect
	unlock := s.locks.LockBoth(oldSlot, newSlot)
	err = func() error {
		res, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if res.Status != StatusRequested && res.Status != StatusConfirmed {
			return &StaleStateError{ReservationID: res.ID, Current: res.Status, Operation: "reschedule"}
		}

		vacated := VacatedSlot{
			ResourceID: res.ResourceID,
			Date:       res.Date,
			Window:     res.Window(),
			VacatedID:  res.ID,
		}

		verdict, err := s.classify(ctx, newSlot.ResourceID, newSlot.Date, input.Window, res.Class, res.ID)
		if err != nil {
			return err
		}
		if verdict.blocker != nil {
			return &ConflictError{Blocker: NewBlockerSummary(verdict.blocker)}
		}

		prev := res.Status
		res.Date = newSlot.Date
		res.StartTime = input.Window.Start
		res.EndTime = input.Window.End

		if verdict.queued {
			if err := res.Requeue(); err != nil {
				return err
			}
		} else if res.Status == StatusRequested {
			// The claim restarts at the new window with a fresh deadline.
			deadline := s.cal.Deadline(s.now())
			res.ApprovalDeadline = &deadline
		}
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		logger.GetDefault().LogReservationTransition(ctx, res.ID.String(), string(prev), string(res.Status))

		moveCtx := map[string]interface{}{
			"previous_date": vacated.Date.Format("2006-01-02"),
		}
		if verdict.queued && verdict.heldBy != nil {
			moveCtx["blocked_by"] = NewBlockerSummary(verdict.heldBy)
		}
		effects = append(effects, Effect{
			RecipientID: res.RequesterID,
			Kind:        EffectRescheduled,
			Context:     reservationContext(res, moveCtx),
		})

		// The old window is free regardless of where the record landed.
		_, promoEffects, err := s.queue.Promote(ctx, vacated, s.now())
		if err != nil {
			return err
		}
		effects = append(effects, promoEffects...)
		return nil
	}()
	unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, effects)
	return res, nil
}

// SweepExpired runs one expiry pass: REQUESTED records past their approval
// deadline become auto-declined and their windows are offered to the queue;
// QUEUED records whose date already passed are cleaned up without promotion.
// Per-row state is re-checked under the slot mutex, so concurrent sweeps and
// racing human decisions cannot double-expire a record.
func (s *service) SweepExpired(ctx context.Context) (*SweepResult, error) {
	started := s.now()
	result := &SweepResult{}

	expired, err := s.repo.ListExpiredRequested(ctx, started, sweepBatchSize)
	if err != nil {
		return nil, err
	}
	for i := range expired {
		effects, promoted, err := s.expireOne(ctx, expired[i].ID, true)
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "sweep failed to expire reservation", err,
				map[string]interface{}{"reservation_id": expired[i].ID.String()})
			continue
		}
		if effects == nil {
			continue // lost the race to a human decision
		}
		result.Expired++
		if promoted {
			result.Promoted++
		}
		s.dispatch(ctx, effects)
	}

	stale, err := s.repo.ListStaleQueued(ctx, started, sweepBatchSize)
	if err != nil {
		return nil, err
	}
	for i := range stale {
		effects, _, err := s.expireOne(ctx, stale[i].ID, false)
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "sweep failed to expire stale queue entry", err,
				map[string]interface{}{"reservation_id": stale[i].ID.String()})
			continue
		}
		if effects == nil {
			continue
		}
		result.StaleQueued++
		s.dispatch(ctx, effects)
	}

	logger.GetDefault().LogSweepCompleted(ctx, result.Expired+result.StaleQueued, s.now().Sub(started))
	return result, nil
}

// expireOne expires a single reservation under its slot mutex. Returns nil
// effects without error when the record was already decided by someone else.
func (s *service) expireOne(ctx context.Context, id uuid.UUID, withPromotion bool) ([]Effect, bool, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	var effects []Effect
	promoted := false
	unlock := s.locks.Lock(res.Slot())
	err = func() error {
		res, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if withPromotion && !res.DeadlineElapsed(s.now()) {
			return nil
		}
		vacated := VacatedSlot{
			ResourceID: res.ResourceID,
			Date:       res.Date,
			Window:     res.Window(),
			VacatedID:  res.ID,
		}
		prev := res.Status
		if err := res.Expire(); err != nil {
			if _, stale := err.(*StaleStateError); stale {
				return nil
			}
			return err
		}
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		logger.GetDefault().LogReservationTransition(ctx, res.ID.String(), string(prev), string(res.Status))

		effects = append(effects, Effect{
			RecipientID: res.RequesterID,
			Kind:        EffectExpired,
			Context:     reservationContext(res, nil),
		})

		if withPromotion {
			winner, promoEffects, err := s.queue.Promote(ctx, vacated, s.now())
			if err != nil {
				return err
			}
			promoted = winner != nil
			effects = append(effects, promoEffects...)
		}
		return nil
	}()
	unlock()
	if err != nil {
		return nil, false, err
	}
	return effects, promoted, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// QueuePosition returns the 1-based rank of a QUEUED reservation among the
// queued contenders for its window, or 0 when it is not queued. The
// REQUESTED slot holder is what the queue waits on and does not count.
func (s *service) QueuePosition(ctx context.Context, id uuid.UUID) (int, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if res.Status != StatusQueued {
		return 0, nil
	}

	unlock := s.locks.Lock(res.Slot())
	defer unlock()

	queued, err := s.repo.ListForSlot(ctx, res.ResourceID, res.Date, []Status{StatusQueued})
	if err != nil {
		return 0, err
	}
	contenders := FilterOverlapping(queued, res.Window(), uuid.Nil)
	return QueuePosition(contenders, res.ID), nil
}

func (s *service) ListForRequester(ctx context.Context, requesterID uuid.UUID) ([]Reservation, error) {
	return s.repo.ListByRequester(ctx, requesterID)
}

func (s *service) ListAdmin(ctx context.Context, filter AdminFilter) ([]Reservation, error) {
	return s.repo.ListAdmin(ctx, filter)
}

// UnavailableDates merges administratively blocked dates with dates carrying
// confirmed reservations over the given range.
func (s *service) UnavailableDates(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	confirmed, err := s.repo.ListConfirmedDates(ctx, resourceID, from, to)
	if err != nil {
		return nil, err
	}
	blockedDates, err := s.blocked.UpcomingBlockedDates(ctx, resourceID, from)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(confirmed)+len(blockedDates))
	dates := make([]time.Time, 0, len(confirmed)+len(blockedDates))
	add := func(d time.Time) {
		d = DateOnly(d)
		if d.Before(DateOnly(from)) || d.After(DateOnly(to)) {
			return
		}
		key := d.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		dates = append(dates, d)
	}
	for _, d := range confirmed {
		add(d)
	}
	for _, d := range blockedDates {
		add(d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
