package resources

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for resource data operations
type Repository interface {
	Create(ctx context.Context, resource *Resource) error
	Update(ctx context.Context, resource *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	List(ctx context.Context, kind Kind, activeOnly bool) ([]Resource, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new resource repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, resource *Resource) error {
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, resource *Resource) error {
	if err := r.db.WithContext(ctx).Save(resource).Error; err != nil {
		return fmt.Errorf("failed to update resource %s: %w", resource.ID, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	var resource Resource
	if err := r.db.WithContext(ctx).First(&resource, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get resource %s: %w", id, err)
	}
	return &resource, nil
}

func (r *repository) List(ctx context.Context, kind Kind, activeOnly bool) ([]Resource, error) {
	query := r.db.WithContext(ctx).Model(&Resource{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var result []Resource
	if err := query.Order("name").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return result, nil
}
