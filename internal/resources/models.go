package resources

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the bookable unit types. Reservation payloads are tagged
// by this kind (halls carry purpose/headcount, vehicles carry destination).
type Kind string

const (
	KindHall    Kind = "HALL"
	KindVehicle Kind = "VEHICLE"
)

// IsValid reports whether the kind is one of the known values.
func (k Kind) IsValid() bool {
	return k == KindHall || k == KindVehicle
}

// Resource is a bookable unit: a hall or a vehicle. The reservation engine
// only reads identity and capacity; everything else is catalog data.
type Resource struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Kind        Kind       `gorm:"type:varchar(10);not null;index" json:"kind"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	// Capacity is seats for halls, passenger seats for vehicles.
	Capacity  int        `gorm:"not null" json:"capacity"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	ManagedBy *uuid.UUID `gorm:"type:uuid" json:"managed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
