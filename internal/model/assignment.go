package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole links a user to a role. At most one row per (user, role) pair.
type UserRole struct {
	UserID         uuid.UUID
	RoleID         uuid.UUID
	AssignedBy     *uuid.UUID
	AssignedAt     time.Time
	ExpirationDate *time.Time
	Active         bool
}

// Effective reports whether the assignment currently grants the role:
// it must be active and its expiration, when set, strictly in the future.
// An expiration equal to now counts as expired.
func (ur *UserRole) Effective(now time.Time) bool {
	if !ur.Active {
		return false
	}
	return ur.ExpirationDate == nil || ur.ExpirationDate.After(now)
}

// RolePermission links a role to a permission. At most one row per pair.
type RolePermission struct {
	RoleID       uuid.UUID
	PermissionID uuid.UUID
	CreatedAt    time.Time
}

// UserRoleDetail is a users_roles row joined with the user and role it links.
type UserRoleDetail struct {
	UserRole
	Username   string
	RoleName   string
	RoleActive bool
}

// RolePermissionDetail is a roles_permissions row joined with role and permission.
type RolePermissionDetail struct {
	RolePermission
	RoleName   string
	Permission Permission
}

type AssignRoleRequest struct {
	RoleID         uuid.UUID  `json:"roleId" binding:"required"`
	AssignedBy     *uuid.UUID `json:"assignedBy"`
	ExpirationDate *time.Time `json:"expirationDate"`
	Active         *bool      `json:"active"`
}

type AssignPermissionRequest struct {
	PermissionID uuid.UUID `json:"permissionId" binding:"required"`
}

type UserRoleResponse struct {
	UserID         uuid.UUID  `json:"userId"`
	Username       string     `json:"username"`
	RoleID         uuid.UUID  `json:"roleId"`
	RoleName       string     `json:"roleName"`
	AssignedBy     *uuid.UUID `json:"assignedBy,omitempty"`
	AssignedAt     time.Time  `json:"assignedAt"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Active         bool       `json:"active"`
}

type RolePermissionResponse struct {
	RoleID       uuid.UUID `json:"roleId"`
	RoleName     string    `json:"roleName"`
	PermissionID uuid.UUID `json:"permissionId"`
	Module       string    `json:"module"`
	Action       string    `json:"action"`
	Resource     *string   `json:"resource,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type HasPermissionResponse struct {
	HasPermission bool `json:"hasPermission"`
}

type HasRoleResponse struct {
	HasRole bool `json:"hasRole"`
}
