package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for user lookups consumed by the
// rest of the system. Account provisioning lives with the identity provider;
// the local records only mirror what notifications and permissions need.
type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// AdminRecipients resolves the staff users that receive admin fan-out
	// notifications (new request submitted, reservation cancelled).
	AdminRecipients(ctx context.Context) ([]User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error)
}

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new user service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) AdminRecipients(ctx context.Context) ([]User, error) {
	return s.repo.ListByRoles(ctx, []Role{RoleReceptionist, RoleSuperAdmin})
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}
	return user, nil
}
