package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single audit log record. Entries are append-only and written by
// the HTTP layer on every mutating action.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Action    string    `gorm:"not null" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Entry) TableName() string {
	return "audit_entries"
}
