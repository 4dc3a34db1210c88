package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PermissionRepo interface {
	CreatePermission(ctx context.Context, p *model.Permission) (*model.Permission, error)
	GetPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error)
	ListPermissions(ctx context.Context) ([]*model.Permission, error)
	ListPermissionsByModule(ctx context.Context, module string) ([]*model.Permission, error)
	UpdatePermission(ctx context.Context, p *model.Permission) (*model.Permission, error)
	DeletePermission(ctx context.Context, id uuid.UUID) (bool, error)
	PermissionTripleExists(ctx context.Context, module, action string, resource *string) (bool, error)
}

type PermissionService struct {
	repo     PermissionRepo
	notFound func(error) bool
	log      *zap.Logger
}

func NewPermissionService(repo PermissionRepo, notFound func(error) bool, log *zap.Logger) *PermissionService {
	return &PermissionService{repo: repo, notFound: notFound, log: log}
}

func (s *PermissionService) Create(ctx context.Context, req model.PermissionRequest) (*model.Permission, error) {
	module := strings.TrimSpace(req.Module)
	action := strings.TrimSpace(req.Action)
	if module == "" || action == "" {
		return nil, fmt.Errorf("%w: module and action are required", ErrInvalidInput)
	}

	exists, err := s.repo.PermissionTripleExists(ctx, module, action, req.Resource)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: permission %s:%s", ErrDuplicate, module, action)
	}

	perm, err := s.repo.CreatePermission(ctx, &model.Permission{
		ID:          uuid.New(),
		Module:      module,
		Action:      action,
		Resource:    req.Resource,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("permission created",
		zap.String("module", perm.Module),
		zap.String("action", perm.Action))
	return perm, nil
}

func (s *PermissionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	perm, err := s.repo.GetPermissionByID(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: permission %s", ErrNotFound, id)
		}
		return nil, err
	}
	return perm, nil
}

func (s *PermissionService) List(ctx context.Context) ([]*model.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *PermissionService) ListByModule(ctx context.Context, module string) ([]*model.Permission, error) {
	return s.repo.ListPermissionsByModule(ctx, module)
}

func (s *PermissionService) Update(ctx context.Context, id uuid.UUID, req model.PermissionRequest) (*model.Permission, error) {
	perm, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	module := strings.TrimSpace(req.Module)
	action := strings.TrimSpace(req.Action)
	if module == "" || action == "" {
		return nil, fmt.Errorf("%w: module and action are required", ErrInvalidInput)
	}

	if tripleChanged(perm, module, action, req.Resource) {
		exists, err := s.repo.PermissionTripleExists(ctx, module, action, req.Resource)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: permission %s:%s", ErrDuplicate, module, action)
		}
	}

	perm.Module = module
	perm.Action = action
	perm.Resource = req.Resource
	perm.Description = req.Description
	return s.repo.UpdatePermission(ctx, perm)
}

func (s *PermissionService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.DeletePermission(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: permission %s", ErrNotFound, id)
	}
	s.log.Info("permission deleted", zap.String("permissionId", id.String()))
	return nil
}

func tripleChanged(perm *model.Permission, module, action string, resource *string) bool {
	if perm.Module != module || perm.Action != action {
		return true
	}
	if (perm.Resource == nil) != (resource == nil) {
		return true
	}
	return perm.Resource != nil && *perm.Resource != *resource
}
