package service

import (
	"context"
	"fmt"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignmentRepo persists the user-role and role-permission associations.
type AssignmentRepo interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	RoleExists(ctx context.Context, id uuid.UUID) (bool, error)
	PermissionExists(ctx context.Context, id uuid.UUID) (bool, error)

	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error)
	GetRoleUsers(ctx context.Context, roleID uuid.UUID) ([]*model.UserRoleDetail, error)
	UserRoleExists(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	AssignRole(ctx context.Context, ur *model.UserRole) (*model.UserRoleDetail, error)
	RemoveRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error)

	GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.RolePermissionDetail, error)
	RolePermissionExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error)
	AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) (*model.RolePermissionDetail, error)
	RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error)
}

// AssignmentService manages role and permission assignments and answers
// authorization point queries through the resolver.
type AssignmentService struct {
	repo     AssignmentRepo
	resolver *PermissionResolver
	log      *zap.Logger
	now      func() time.Time
}

func NewAssignmentService(repo AssignmentRepo, resolver *PermissionResolver, log *zap.Logger) *AssignmentService {
	return &AssignmentService{repo: repo, resolver: resolver, log: log, now: time.Now}
}

func (s *AssignmentService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetUserRoles(ctx, userID)
}

func (s *AssignmentService) GetRoleUsers(ctx context.Context, roleID uuid.UUID) ([]*model.UserRoleDetail, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}
	return s.repo.GetRoleUsers(ctx, roleID)
}

// AssignRoleToUser creates a user-role assignment. A second assignment of
// the same role to the same user is a conflict.
func (s *AssignmentService) AssignRoleToUser(ctx context.Context, userID uuid.UUID, req model.AssignRoleRequest) (*model.UserRoleDetail, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, req.RoleID); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserRoleExists(ctx, userID, req.RoleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: user already has this role", ErrDuplicate)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	detail, err := s.repo.AssignRole(ctx, &model.UserRole{
		UserID:         userID,
		RoleID:         req.RoleID,
		AssignedBy:     req.AssignedBy,
		AssignedAt:     s.now(),
		ExpirationDate: req.ExpirationDate,
		Active:         active,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("role assigned",
		zap.String("userId", userID.String()),
		zap.String("roleId", req.RoleID.String()))
	return detail, nil
}

// RemoveRoleFromUser deletes the assignment. Removing one that does not
// exist is an error, not a no-op.
func (s *AssignmentService) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	removed, err := s.repo.RemoveRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: assignment", ErrNotFound)
	}
	s.log.Info("role removed",
		zap.String("userId", userID.String()),
		zap.String("roleId", roleID.String()))
	return nil
}

func (s *AssignmentService) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.RolePermissionDetail, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}
	return s.repo.GetRolePermissions(ctx, roleID)
}

func (s *AssignmentService) AssignPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID) (*model.RolePermissionDetail, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}
	exists, err := s.repo.PermissionExists(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: permission %s", ErrNotFound, permissionID)
	}

	granted, err := s.repo.RolePermissionExists(ctx, roleID, permissionID)
	if err != nil {
		return nil, err
	}
	if granted {
		return nil, fmt.Errorf("%w: role already has this permission", ErrDuplicate)
	}

	detail, err := s.repo.AssignPermission(ctx, roleID, permissionID)
	if err != nil {
		return nil, err
	}

	s.log.Info("permission assigned",
		zap.String("roleId", roleID.String()),
		zap.String("permissionId", permissionID.String()))
	return detail, nil
}

func (s *AssignmentService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	removed, err := s.repo.RemovePermission(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: assignment", ErrNotFound)
	}
	s.log.Info("permission removed",
		zap.String("roleId", roleID.String()),
		zap.String("permissionId", permissionID.String()))
	return nil
}

func (s *AssignmentService) GetUserEffectivePermissions(ctx context.Context, userID uuid.UUID) ([]*model.Permission, error) {
	return s.resolver.EffectivePermissions(ctx, userID)
}

func (s *AssignmentService) UserHasPermission(ctx context.Context, userID uuid.UUID, module, action string, resource *string) (bool, error) {
	return s.resolver.HasPermission(ctx, userID, module, action, resource)
}

func (s *AssignmentService) UserHasRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	return s.resolver.HasRole(ctx, userID, roleID)
}

func (s *AssignmentService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return nil
}

func (s *AssignmentService) requireRole(ctx context.Context, roleID uuid.UUID) error {
	exists, err := s.repo.RoleExists(ctx, roleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: role %s", ErrNotFound, roleID)
	}
	return nil
}
