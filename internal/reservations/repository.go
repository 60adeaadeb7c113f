package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminFilter narrows the admin listing.
type AdminFilter struct {
	Status     Status
	ResourceID *uuid.UUID
	Date       *time.Time
	Limit      int
}

// Repository interface defines the contract for reservation data operations.
// ListForSlot is the overlap index's storage half: it narrows by resource,
// date and status; window filtering stays in pure code.
type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	Update(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// ListForSlot returns every reservation for the (resource, date) pair in
	// one of the given states, ordered by creation time.
	ListForSlot(ctx context.Context, resourceID uuid.UUID, date time.Time, statuses []Status) ([]Reservation, error)

	// ListExpiredRequested returns REQUESTED reservations whose approval
	// deadline passed before now.
	ListExpiredRequested(ctx context.Context, now time.Time, limit int) ([]Reservation, error)

	// ListStaleQueued returns QUEUED reservations whose date is before today.
	ListStaleQueued(ctx context.Context, today time.Time, limit int) ([]Reservation, error)

	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Reservation, error)
	ListAdmin(ctx context.Context, filter AdminFilter) ([]Reservation, error)

	// ListConfirmedDates returns the distinct dates in [from, to] on which the
	// resource has at least one CONFIRMED reservation.
	ListConfirmedDates(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]time.Time, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservation repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, res *Reservation) error {
	if err := r.db.WithContext(ctx).Save(res).Error; err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var res Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation %s: %w", id, err)
	}
	return &res, nil
}

func (r *repository) ListForSlot(ctx context.Context, resourceID uuid.UUID, date time.Time, statuses []Status) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND date = ? AND status IN ?", resourceID, DateOnly(date), statuses).
		Order("created_at").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for slot: %w", err)
	}
	return result, nil
}

func (r *repository) ListExpiredRequested(ctx context.Context, now time.Time, limit int) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND approval_deadline < ? AND auto_expired = ?", StatusRequested, now, false).
		Order("approval_deadline").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired requested reservations: %w", err)
	}
	return result, nil
}

func (r *repository) ListStaleQueued(ctx context.Context, today time.Time, limit int) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND date < ?", StatusQueued, DateOnly(today)).
		Order("date").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale queued reservations: %w", err)
	}
	return result, nil
}

func (r *repository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("date desc, created_at desc").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for requester: %w", err)
	}
	return result, nil
}

func (r *repository) ListConfirmedDates(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).Model(&Reservation{}).
		Distinct("date").
		Where("resource_id = ? AND status = ? AND date BETWEEN ? AND ?",
			resourceID, StatusConfirmed, DateOnly(from), DateOnly(to)).
		Order("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed dates: %w", err)
	}
	return dates, nil
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminFilter) ([]Reservation, error) {
	query := r.db.WithContext(ctx).Model(&Reservation{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ResourceID != nil {
		query = query.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", DateOnly(*filter.Date))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var result []Reservation
	err := query.Order("date desc, start_time").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return result, nil
}
