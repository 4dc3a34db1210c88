package service

import (
	"context"
	"testing"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

type fakeResolverRepo struct {
	roles map[uuid.UUID][]*model.UserRoleDetail
	perms map[uuid.UUID][]*model.Permission
}

func (f *fakeResolverRepo) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error) {
	return f.roles[userID], nil
}

func (f *fakeResolverRepo) PermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]*model.Permission, error) {
	return f.perms[roleID], nil
}

func assignment(userID, roleID uuid.UUID, active bool, expires *time.Time, roleName string, roleActive bool) *model.UserRoleDetail {
	return &model.UserRoleDetail{
		UserRole: model.UserRole{
			UserID:         userID,
			RoleID:         roleID,
			ExpirationDate: expires,
			Active:         active,
		},
		RoleName:   roleName,
		RoleActive: roleActive,
	}
}

func TestEffectivePermissionsFiltersAssignments(t *testing.T) {
	userID := uuid.New()
	activeRole := uuid.New()
	inactiveRole := uuid.New()
	expiredRole := uuid.New()

	now := time.Now()
	past := now.Add(-time.Minute)

	repo := &fakeResolverRepo{
		roles: map[uuid.UUID][]*model.UserRoleDetail{
			userID: {
				assignment(userID, activeRole, true, nil, "ADMIN", true),
				assignment(userID, inactiveRole, false, nil, "AUDITOR", true),
				assignment(userID, expiredRole, true, &past, "REPORTER", true),
			},
		},
		perms: map[uuid.UUID][]*model.Permission{
			activeRole:   {{ID: uuid.New(), Module: "users", Action: "read"}},
			inactiveRole: {{ID: uuid.New(), Module: "users", Action: "write"}},
			expiredRole:  {{ID: uuid.New(), Module: "roles", Action: "read"}},
		},
	}
	resolver := NewPermissionResolver(repo)
	resolver.now = func() time.Time { return now }

	perms, err := resolver.EffectivePermissions(context.Background(), userID)
	if err != nil {
		t.Fatalf("EffectivePermissions: %v", err)
	}
	if len(perms) != 1 {
		t.Fatalf("got %d permissions, want 1", len(perms))
	}
	if perms[0].Module != "users" || perms[0].Action != "read" {
		t.Errorf("unexpected permission %s:%s", perms[0].Module, perms[0].Action)
	}
}

func TestEffectivePermissionsDeduplicates(t *testing.T) {
	userID := uuid.New()
	roleA := uuid.New()
	roleB := uuid.New()
	shared := &model.Permission{ID: uuid.New(), Module: "users", Action: "read"}

	repo := &fakeResolverRepo{
		roles: map[uuid.UUID][]*model.UserRoleDetail{
			userID: {
				assignment(userID, roleA, true, nil, "A", true),
				assignment(userID, roleB, true, nil, "B", true),
			},
		},
		perms: map[uuid.UUID][]*model.Permission{
			roleA: {shared},
			roleB: {shared, {ID: uuid.New(), Module: "users", Action: "write"}},
		},
	}
	resolver := NewPermissionResolver(repo)

	perms, err := resolver.EffectivePermissions(context.Background(), userID)
	if err != nil {
		t.Fatalf("EffectivePermissions: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("got %d permissions, want 2 after dedup", len(perms))
	}
}

func TestExpirationBoundaryCountsAsExpired(t *testing.T) {
	userID := uuid.New()
	roleID := uuid.New()
	now := time.Now()

	repo := &fakeResolverRepo{
		roles: map[uuid.UUID][]*model.UserRoleDetail{
			userID: {assignment(userID, roleID, true, &now, "ADMIN", true)},
		},
	}
	resolver := NewPermissionResolver(repo)
	resolver.now = func() time.Time { return now }

	has, err := resolver.HasRole(context.Background(), userID, roleID)
	if err != nil {
		t.Fatalf("HasRole: %v", err)
	}
	if has {
		t.Error("assignment expiring exactly now must not be effective")
	}

	// One instant earlier the same assignment still grants the role.
	resolver.now = func() time.Time { return now.Add(-time.Nanosecond) }
	has, err = resolver.HasRole(context.Background(), userID, roleID)
	if err != nil {
		t.Fatalf("HasRole: %v", err)
	}
	if !has {
		t.Error("assignment expiring in the future should be effective")
	}
}

func TestHasPermissionResourceMatching(t *testing.T) {
	userID := uuid.New()
	roleID := uuid.New()
	orders := "orders"

	repo := &fakeResolverRepo{
		roles: map[uuid.UUID][]*model.UserRoleDetail{
			userID: {assignment(userID, roleID, true, nil, "ADMIN", true)},
		},
		perms: map[uuid.UUID][]*model.Permission{
			roleID: {
				{ID: uuid.New(), Module: "billing", Action: "read", Resource: &orders},
				{ID: uuid.New(), Module: "reports", Action: "export"},
			},
		},
	}
	resolver := NewPermissionResolver(repo)

	invoices := "invoices"
	cases := []struct {
		name     string
		module   string
		action   string
		resource *string
		want     bool
	}{
		{"nil query matches scoped permission", "billing", "read", nil, true},
		{"exact resource match", "billing", "read", &orders, true},
		{"different resource", "billing", "read", &invoices, false},
		{"wrong action", "billing", "write", nil, false},
		{"wrong module", "users", "read", nil, false},
		{"nil query matches unscoped permission", "reports", "export", nil, true},
		{"concrete query against unscoped permission", "reports", "export", &orders, false},
	}
	for _, tc := range cases {
		got, err := resolver.HasPermission(context.Background(), userID, tc.module, tc.action, tc.resource)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: HasPermission = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEffectiveRoleNamesRequireActiveRole(t *testing.T) {
	userID := uuid.New()

	repo := &fakeResolverRepo{
		roles: map[uuid.UUID][]*model.UserRoleDetail{
			userID: {
				assignment(userID, uuid.New(), true, nil, "ADMIN", true),
				assignment(userID, uuid.New(), true, nil, "RETIRED", false),
				assignment(userID, uuid.New(), false, nil, "AUDITOR", true),
			},
		},
	}
	resolver := NewPermissionResolver(repo)

	names, err := resolver.EffectiveRoleNames(context.Background(), userID)
	if err != nil {
		t.Fatalf("EffectiveRoleNames: %v", err)
	}
	if len(names) != 1 || names[0] != "ADMIN" {
		t.Errorf("names = %v, want [ADMIN]", names)
	}
}

func TestHasRoleWithNoAssignments(t *testing.T) {
	resolver := NewPermissionResolver(&fakeResolverRepo{})

	has, err := resolver.HasRole(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("HasRole: %v", err)
	}
	if has {
		t.Error("user without assignments must not hold any role")
	}
}
