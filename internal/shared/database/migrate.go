package database

import (
	"reservly/internal/audit"
	"reservly/internal/blockeddates"
	"reservly/internal/reservations"
	"reservly/internal/resources"
	"reservly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&resources.Resource{},
		&blockeddates.BlockedDate{},
		&reservations.Reservation{},
		&audit.Entry{},
	)
}

// MigrateConstraints adds indexes the overlap and sweep queries depend on.
func MigrateConstraints(db *gorm.DB) error {
	// Contender lookups always narrow by resource, date and status.
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_slot_status
		ON reservations (resource_id, date, status);
	`).Error
	if err != nil {
		return err
	}

	// The sweep scans for overdue REQUESTED rows by deadline.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_approval_deadline
		ON reservations (approval_deadline)
		WHERE status = 'REQUESTED';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
