package resources

import "github.com/google/uuid"

// CreateResourceRequest represents a request to add a bookable unit
type CreateResourceRequest struct {
	Name        string     `json:"name" binding:"required"`
	Kind        string     `json:"kind" binding:"required,oneof=HALL VEHICLE"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Capacity    int        `json:"capacity" binding:"required,min=1"`
	ManagedBy   *uuid.UUID `json:"managed_by"`
}

// UpdateResourceRequest represents a partial update to a bookable unit
type UpdateResourceRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
	IsActive    *bool   `json:"is_active"`
}
