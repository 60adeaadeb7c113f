package blockeddates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service interface defines the contract for blocked-date business logic.
// IsBlocked is the membership query the reservation engine consults before
// creating or rescheduling.
type Service interface {
	IsBlocked(ctx context.Context, resourceID uuid.UUID, date time.Time) (bool, error)
	BlockDate(ctx context.Context, req *BlockDateRequest) (*BlockedDate, error)
	UnblockDate(ctx context.Context, id uuid.UUID) (*BlockedDate, error)
	ListBlockedDates(ctx context.Context) ([]BlockedDate, error)
	UpcomingBlockedDates(ctx context.Context, resourceID uuid.UUID, from time.Time) ([]time.Time, error)
}

// BlockDateRequest represents a request to block a date
type BlockDateRequest struct {
	ResourceID *uuid.UUID `json:"resource_id"` // nil blocks all resources
	Date       string     `json:"date" binding:"required"`
	Reason     string     `json:"reason"`
}

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new blocked-date service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) IsBlocked(ctx context.Context, resourceID uuid.UUID, date time.Time) (bool, error) {
	return s.repo.Exists(ctx, resourceID, date)
}

func (s *service) BlockDate(ctx context.Context, req *BlockDateRequest) (*BlockedDate, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	exists, err := s.repo.ExistsExact(ctx, req.ResourceID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("date %s is already blocked for this scope", req.Date)
	}

	block := &BlockedDate{
		ResourceID: req.ResourceID,
		Date:       date,
		Reason:     req.Reason,
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *service) UnblockDate(ctx context.Context, id uuid.UUID) (*BlockedDate, error) {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *service) ListBlockedDates(ctx context.Context) ([]BlockedDate, error) {
	return s.repo.List(ctx)
}

func (s *service) UpcomingBlockedDates(ctx context.Context, resourceID uuid.UUID, from time.Time) ([]time.Time, error) {
	return s.repo.ListUpcoming(ctx, resourceID, from)
}
