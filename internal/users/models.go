package users

import (
	"time"

	"github.com/google/uuid"
)

// Role determines what a user may do and which requester class they submit as.
type Role string

const (
	// RoleRequester submits Standard-class reservation requests.
	RoleRequester Role = "REQUESTER"
	// RoleDelegate submits Priority-class reservation requests on behalf of a department.
	RoleDelegate Role = "DELEGATE"
	// RoleReceptionist approves, declines and reschedules reservations.
	RoleReceptionist Role = "RECEPTIONIST"
	// RoleSuperAdmin has receptionist rights plus user and audit management.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleRequester, RoleDelegate, RoleReceptionist, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role carries approval rights.
func (r Role) IsStaff() bool {
	return r == RoleReceptionist || r == RoleSuperAdmin
}

// User is an identity record. Authentication itself happens outside this
// service; we keep the fields the engine needs for permissions, requester
// class and notification addressing.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'REQUESTER'" json:"role"`
	Phone        string    `json:"phone,omitempty"`
	DelegateName string    `json:"delegate_name,omitempty"` // department delegate, set for DELEGATE users
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
