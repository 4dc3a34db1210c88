package service

import (
	"context"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

// ResolverRepo provides the raw association rows the resolver walks.
type ResolverRepo interface {
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error)
	PermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]*model.Permission, error)
}

// PermissionResolver computes the permissions a user effectively holds by
// traversing user -> role -> permission, dropping assignments that are
// inactive or expired along the way.
type PermissionResolver struct {
	repo ResolverRepo
	now  func() time.Time
}

func NewPermissionResolver(repo ResolverRepo) *PermissionResolver {
	return &PermissionResolver{repo: repo, now: time.Now}
}

// EffectivePermissions returns the deduplicated union of permissions
// reachable through every effective role assignment of the user.
func (r *PermissionResolver) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]*model.Permission, error) {
	assignments, err := r.effectiveAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	var perms []*model.Permission
	for _, assignment := range assignments {
		rolePerms, err := r.repo.PermissionsForRole(ctx, assignment.RoleID)
		if err != nil {
			return nil, err
		}
		for _, p := range rolePerms {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			perms = append(perms, p)
		}
	}
	return perms, nil
}

// HasPermission reports whether some effective permission matches module and
// action exactly. A nil resource query matches regardless of the
// permission's resource; a concrete one must match exactly.
func (r *PermissionResolver) HasPermission(ctx context.Context, userID uuid.UUID, module, action string, resource *string) (bool, error) {
	perms, err := r.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p.Module != module || p.Action != action {
			continue
		}
		if resource == nil {
			return true, nil
		}
		if p.Resource != nil && *p.Resource == *resource {
			return true, nil
		}
	}
	return false, nil
}

// HasRole reports whether the user holds an effective assignment of the
// role. Inactive or expired assignments do not count.
func (r *PermissionResolver) HasRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	assignments, err := r.effectiveAssignments(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, assignment := range assignments {
		if assignment.RoleID == roleID {
			return true, nil
		}
	}
	return false, nil
}

// EffectiveRoleNames returns the names of the user's effective roles,
// further restricted to roles that are themselves active. This is the role
// list embedded in freshly minted access tokens.
func (r *PermissionResolver) EffectiveRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	assignments, err := r.effectiveAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.RoleActive {
			names = append(names, assignment.RoleName)
		}
	}
	return names, nil
}

func (r *PermissionResolver) effectiveAssignments(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error) {
	all, err := r.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := r.now()
	effective := all[:0:0]
	for _, assignment := range all {
		if assignment.Effective(now) {
			effective = append(effective, assignment)
		}
	}
	return effective, nil
}
