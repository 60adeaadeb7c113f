package audit

import (
	"context"
	"fmt"

	"reservly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service records and lists audit entries. Logging an action must never fail
// the action itself, so Log swallows persistence errors after logging them.
type Service interface {
	Log(ctx context.Context, userID uuid.UUID, action string)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

type service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService creates a new audit service
func NewService(db *gorm.DB, log *logger.Logger) Service {
	return &service{db: db, log: log}
}

func (s *service) Log(ctx context.Context, userID uuid.UUID, action string) {
	entry := &Entry{UserID: userID, Action: action}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.log.ErrorWithContext(ctx, "failed to write audit entry", err, map[string]interface{}{
			"user_id": userID.String(),
			"action":  action,
		})
	}
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var entries []Entry
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
