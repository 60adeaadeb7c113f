package blockeddates

import (
	"time"

	"github.com/google/uuid"
)

// BlockedDate excludes a calendar day from booking, either for a single
// resource or globally when ResourceID is nil. Administrative blocks take
// precedence over all queueing logic.
type BlockedDate struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResourceID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_resource_date" json:"resource_id,omitempty"`
	Date       time.Time  `gorm:"type:date;not null;uniqueIndex:idx_resource_date;index" json:"date"`
	Reason     string     `json:"reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsGlobal reports whether the block applies to every resource.
func (b *BlockedDate) IsGlobal() bool {
	return b.ResourceID == nil
}
