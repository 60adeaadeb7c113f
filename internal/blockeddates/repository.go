package blockeddates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for blocked-date data operations
type Repository interface {
	Create(ctx context.Context, block *BlockedDate) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*BlockedDate, error)
	// Exists reports whether the date is blocked for the resource, either by a
	// resource-scoped block or a global one.
	Exists(ctx context.Context, resourceID uuid.UUID, date time.Time) (bool, error)
	// ExistsExact reports whether the exact (resource, date) block row exists.
	ExistsExact(ctx context.Context, resourceID *uuid.UUID, date time.Time) (bool, error)
	List(ctx context.Context) ([]BlockedDate, error)
	ListUpcoming(ctx context.Context, resourceID uuid.UUID, from time.Time) ([]time.Time, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new blocked-date repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, block *BlockedDate) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return fmt.Errorf("failed to create blocked date: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&BlockedDate{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete blocked date %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("blocked date %s not found", id)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BlockedDate, error) {
	var block BlockedDate
	if err := r.db.WithContext(ctx).First(&block, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get blocked date %s: %w", id, err)
	}
	return &block, nil
}

func (r *repository) Exists(ctx context.Context, resourceID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BlockedDate{}).
		Where("date = ? AND (resource_id = ? OR resource_id IS NULL)", dateOnly(date), resourceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blocked date: %w", err)
	}
	return count > 0, nil
}

func (r *repository) ExistsExact(ctx context.Context, resourceID *uuid.UUID, date time.Time) (bool, error) {
	query := r.db.WithContext(ctx).Model(&BlockedDate{}).Where("date = ?", dateOnly(date))
	if resourceID == nil {
		query = query.Where("resource_id IS NULL")
	} else {
		query = query.Where("resource_id = ?", *resourceID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check blocked date: %w", err)
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]BlockedDate, error) {
	var result []BlockedDate
	if err := r.db.WithContext(ctx).Order("date desc").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}
	return result, nil
}

func (r *repository) ListUpcoming(ctx context.Context, resourceID uuid.UUID, from time.Time) ([]time.Time, error) {
	var blocks []BlockedDate
	err := r.db.WithContext(ctx).
		Where("date >= ? AND (resource_id = ? OR resource_id IS NULL)", dateOnly(from), resourceID).
		Order("date").
		Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming blocked dates: %w", err)
	}

	dates := make([]time.Time, 0, len(blocks))
	for _, b := range blocks {
		dates = append(dates, b.Date)
	}
	return dates, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
