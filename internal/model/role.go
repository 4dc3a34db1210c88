package model

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsSystem    bool
	Active      bool
	CreatedAt   time.Time
}

type RoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsSystem    *bool  `json:"isSystem"`
	Active      *bool  `json:"active"`
}

type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"isSystem"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *Role) ToResponse() RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}
