package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoleRepo interface {
	CreateRole(ctx context.Context, r *model.Role) (*model.Role, error)
	GetRoleByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
	ListActiveRoles(ctx context.Context) ([]*model.Role, error)
	ListInactiveRoles(ctx context.Context) ([]*model.Role, error)
	UpdateRole(ctx context.Context, r *model.Role) (*model.Role, error)
	SetRoleActive(ctx context.Context, id uuid.UUID, active bool) error
	RoleNameExists(ctx context.Context, name string) (bool, error)
}

type RoleService struct {
	repo     RoleRepo
	notFound func(error) bool
	log      *zap.Logger
}

func NewRoleService(repo RoleRepo, notFound func(error) bool, log *zap.Logger) *RoleService {
	return &RoleService{repo: repo, notFound: notFound, log: log}
}

func (s *RoleService) Create(ctx context.Context, req model.RoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}

	exists, err := s.repo.RoleNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: role %s", ErrDuplicate, name)
	}

	isSystem := false
	if req.IsSystem != nil {
		isSystem = *req.IsSystem
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	role, err := s.repo.CreateRole(ctx, &model.Role{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		IsSystem:    isSystem,
		Active:      active,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("role created", zap.String("role", role.Name))
	return role, nil
}

func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	role, err := s.repo.GetRoleByID(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: role %s", ErrNotFound, id)
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: role %s", ErrNotFound, name)
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context) ([]*model.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *RoleService) ListActive(ctx context.Context) ([]*model.Role, error) {
	return s.repo.ListActiveRoles(ctx)
}

func (s *RoleService) ListInactive(ctx context.Context) ([]*model.Role, error) {
	return s.repo.ListInactiveRoles(ctx)
}

// Exists reports whether a role name is taken.
func (s *RoleService) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.RoleNameExists(ctx, strings.TrimSpace(name))
}

func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req model.RoleRequest) (*model.Role, error) {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	if name != role.Name {
		exists, err := s.repo.RoleNameExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: role %s", ErrDuplicate, name)
		}
	}

	role.Name = name
	role.Description = req.Description
	if req.IsSystem != nil {
		role.IsSystem = *req.IsSystem
	}
	if req.Active != nil {
		role.Active = *req.Active
	}
	return s.repo.UpdateRole(ctx, role)
}

// Delete deactivates the role. System-protected roles cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return fmt.Errorf("%w: system roles cannot be deleted", ErrIllegalState)
	}
	if err := s.repo.SetRoleActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info("role deactivated", zap.String("role", role.Name))
	return nil
}

// Restore reactivates a soft-deleted role.
func (s *RoleService) Restore(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Active {
		return nil, fmt.Errorf("%w: role is already active", ErrIllegalState)
	}
	if err := s.repo.SetRoleActive(ctx, id, true); err != nil {
		return nil, err
	}
	role.Active = true
	s.log.Info("role restored", zap.String("role", role.Name))
	return role, nil
}
