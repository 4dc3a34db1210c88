package model

import (
	"time"

	"github.com/google/uuid"
)

// Permission is identified by the (module, action, resource) triple.
// A nil resource is a distinct value, not an empty string.
type Permission struct {
	ID          uuid.UUID
	Module      string
	Action      string
	Resource    *string
	Description string
	CreatedAt   time.Time
}

type PermissionRequest struct {
	Module      string  `json:"module" binding:"required"`
	Action      string  `json:"action" binding:"required"`
	Resource    *string `json:"resource"`
	Description string  `json:"description"`
}

type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Module      string    `json:"module"`
	Action      string    `json:"action"`
	Resource    *string   `json:"resource,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Permission) ToResponse() PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Module:      p.Module,
		Action:      p.Action,
		Resource:    p.Resource,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
