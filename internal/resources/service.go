package resources

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for catalog business logic
type Service interface {
	CreateResource(ctx context.Context, req *CreateResourceRequest) (*Resource, error)
	UpdateResource(ctx context.Context, id uuid.UUID, req *UpdateResourceRequest) (*Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListResources(ctx context.Context, kind Kind, activeOnly bool) ([]Resource, error)
}

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new resource service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateResource(ctx context.Context, req *CreateResourceRequest) (*Resource, error) {
	if !Kind(req.Kind).IsValid() {
		return nil, fmt.Errorf("invalid resource kind %q", req.Kind)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive")
	}

	resource := &Resource{
		Name:        req.Name,
		Kind:        Kind(req.Kind),
		Location:    req.Location,
		Description: req.Description,
		Capacity:    req.Capacity,
		IsActive:    true,
		ManagedBy:   req.ManagedBy,
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *service) UpdateResource(ctx context.Context, id uuid.UUID, req *UpdateResourceRequest) (*Resource, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Location != nil {
		resource.Location = *req.Location
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("capacity must be positive")
		}
		resource.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		resource.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListResources(ctx context.Context, kind Kind, activeOnly bool) ([]Resource, error) {
	return s.repo.List(ctx, kind, activeOnly)
}
