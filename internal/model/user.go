package model

import (
	"time"

	"github.com/google/uuid"
)

// User lifecycle statuses.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

type User struct {
	ID            uuid.UUID
	Username      string
	PasswordHash  string
	PersonID      *uuid.UUID
	Status        string
	LastLogin     *time.Time
	LoginAttempts int
	BlockedUntil  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRequest struct {
	Username string     `json:"username" binding:"required"`
	Password string     `json:"password"`
	PersonID *uuid.UUID `json:"personId"`
	Status   string     `json:"status"`
}

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	PersonID      *uuid.UUID `json:"personId,omitempty"`
	Status        string     `json:"status"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	LoginAttempts int        `json:"loginAttempts"`
	BlockedUntil  *time.Time `json:"blockedUntil,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		PersonID:      u.PersonID,
		Status:        u.Status,
		LastLogin:     u.LastLogin,
		LoginAttempts: u.LoginAttempts,
		BlockedUntil:  u.BlockedUntil,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
