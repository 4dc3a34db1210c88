package service

import (
	"context"
	"errors"
	"testing"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeRoleRepo struct {
	byID map[uuid.UUID]*model.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byID: make(map[uuid.UUID]*model.Role)}
}

func (f *fakeRoleRepo) CreateRole(ctx context.Context, r *model.Role) (*model.Role, error) {
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRoleRepo) GetRoleByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, errFakeNoRows
}

func (f *fakeRoleRepo) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	for _, r := range f.byID {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, errFakeNoRows
}

func (f *fakeRoleRepo) ListRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	for _, r := range f.byID {
		roles = append(roles, r)
	}
	return roles, nil
}

func (f *fakeRoleRepo) ListActiveRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	for _, r := range f.byID {
		if r.Active {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (f *fakeRoleRepo) ListInactiveRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	for _, r := range f.byID {
		if !r.Active {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (f *fakeRoleRepo) UpdateRole(ctx context.Context, r *model.Role) (*model.Role, error) {
	if _, ok := f.byID[r.ID]; !ok {
		return nil, errFakeNoRows
	}
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRoleRepo) SetRoleActive(ctx context.Context, id uuid.UUID, active bool) error {
	r, ok := f.byID[id]
	if !ok {
		return errFakeNoRows
	}
	r.Active = active
	return nil
}

func (f *fakeRoleRepo) RoleNameExists(ctx context.Context, name string) (bool, error) {
	_, err := f.GetRoleByName(ctx, name)
	return err == nil, nil
}

func newRoleService() (*RoleService, *fakeRoleRepo) {
	repo := newFakeRoleRepo()
	return NewRoleService(repo, fakeNotFound, zap.NewNop()), repo
}

func TestCreateRole(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	role, err := svc.Create(ctx, model.RoleRequest{Name: "ADMIN"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !role.Active || role.IsSystem {
		t.Errorf("defaults: active=%v isSystem=%v, want active non-system", role.Active, role.IsSystem)
	}

	if _, err := svc.Create(ctx, model.RoleRequest{Name: "ADMIN"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate name: err = %v", err)
	}
	if _, err := svc.Create(ctx, model.RoleRequest{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name: err = %v", err)
	}
}

func TestDeleteRoleSoftDeletes(t *testing.T) {
	svc, repo := newRoleService()
	ctx := context.Background()

	role, err := svc.Create(ctx, model.RoleRequest{Name: "AUDITOR"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, role.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if repo.byID[role.ID] == nil {
		t.Fatal("delete must not remove the row")
	}
	if repo.byID[role.ID].Active {
		t.Error("deleted role should be inactive")
	}
}

func TestDeleteSystemRoleRefused(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	isSystem := true
	role, err := svc.Create(ctx, model.RoleRequest{Name: "ROOT", IsSystem: &isSystem})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, role.ID); !errors.Is(err, ErrIllegalState) {
		t.Errorf("err = %v, want ErrIllegalState", err)
	}
}

func TestRestoreRole(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	role, err := svc.Create(ctx, model.RoleRequest{Name: "AUDITOR"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Restoring an active role is an error.
	if _, err := svc.Restore(ctx, role.ID); !errors.Is(err, ErrIllegalState) {
		t.Errorf("err = %v, want ErrIllegalState", err)
	}

	if err := svc.Delete(ctx, role.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	restored, err := svc.Restore(ctx, role.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Active {
		t.Error("restored role should be active")
	}
}

func TestListActiveRoles(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	admin, err := svc.Create(ctx, model.RoleRequest{Name: "ADMIN"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	retired, err := svc.Create(ctx, model.RoleRequest{Name: "RETIRED"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, retired.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != admin.ID {
		t.Errorf("active roles = %v", active)
	}

	inactive, err := svc.ListInactive(ctx)
	if err != nil {
		t.Fatalf("ListInactive: %v", err)
	}
	if len(inactive) != 1 || inactive[0].ID != retired.ID {
		t.Errorf("inactive roles = %v", inactive)
	}
}

func TestGetRoleByName(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.RoleRequest{Name: "ADMIN"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	role, err := svc.GetByName(ctx, "ADMIN")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if role.ID != created.ID {
		t.Errorf("role = %v, want %v", role.ID, created.ID)
	}

	if _, err := svc.GetByName(ctx, "GHOST"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRoleNameExists(t *testing.T) {
	svc, _ := newRoleService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, model.RoleRequest{Name: "ADMIN"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	taken, err := svc.Exists(ctx, "ADMIN")
	if err != nil || !taken {
		t.Errorf("Exists(ADMIN) = %v, %v, want true", taken, err)
	}
	free, err := svc.Exists(ctx, "GHOST")
	if err != nil || free {
		t.Errorf("Exists(GHOST) = %v, %v, want false", free, err)
	}
}
