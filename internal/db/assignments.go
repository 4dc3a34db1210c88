package db

import (
	"context"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userRoleDetailQuery = `
	SELECT ur.user_id, ur.role_id, ur.assigned_by, ur.assigned_at, ur.expiration_date, ur.active,
	       u.username, r.name, r.active
	FROM users_roles ur
	JOIN users u ON ur.user_id = u.id
	JOIN roles r ON ur.role_id = r.id
`

func scanUserRoleDetail(row interface{ Scan(...any) error }) (*model.UserRoleDetail, error) {
	var d model.UserRoleDetail
	err := row.Scan(
		&d.UserID,
		&d.RoleID,
		&d.AssignedBy,
		&d.AssignedAt,
		&d.ExpirationDate,
		&d.Active,
		&d.Username,
		&d.RoleName,
		&d.RoleActive,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *Postgres) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error) {
	rows, err := db.Pool.Query(ctx, userRoleDetailQuery+` WHERE ur.user_id = $1 ORDER BY ur.assigned_at`, userID)
	if err != nil {
		return nil, err
	}
	return collectUserRoleDetails(rows)
}

func (db *Postgres) GetRoleUsers(ctx context.Context, roleID uuid.UUID) ([]*model.UserRoleDetail, error) {
	rows, err := db.Pool.Query(ctx, userRoleDetailQuery+` WHERE ur.role_id = $1 ORDER BY ur.assigned_at`, roleID)
	if err != nil {
		return nil, err
	}
	return collectUserRoleDetails(rows)
}

func collectUserRoleDetails(rows pgx.Rows) ([]*model.UserRoleDetail, error) {
	defer rows.Close()
	var details []*model.UserRoleDetail
	for rows.Next() {
		d, err := scanUserRoleDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (db *Postgres) UserRoleExists(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users_roles WHERE user_id = $1 AND role_id = $2)`,
		userID, roleID).Scan(&exists)
	return exists, err
}

func (db *Postgres) AssignRole(ctx context.Context, ur *model.UserRole) (*model.UserRoleDetail, error) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users_roles (user_id, role_id, assigned_by, assigned_at, expiration_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ur.UserID, ur.RoleID, ur.AssignedBy, ur.AssignedAt, ur.ExpirationDate, ur.Active)
	if err != nil {
		return nil, err
	}
	return scanUserRoleDetail(db.Pool.QueryRow(ctx,
		userRoleDetailQuery+` WHERE ur.user_id = $1 AND ur.role_id = $2`, ur.UserID, ur.RoleID))
}

func (db *Postgres) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM users_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const rolePermissionDetailQuery = `
	SELECT rp.role_id, rp.permission_id, rp.created_at, r.name,
	       p.id, p.module, p.action, p.resource, p.description, p.created_at
	FROM roles_permissions rp
	JOIN roles r ON rp.role_id = r.id
	JOIN permissions p ON rp.permission_id = p.id
`

func scanRolePermissionDetail(row interface{ Scan(...any) error }) (*model.RolePermissionDetail, error) {
	var d model.RolePermissionDetail
	err := row.Scan(
		&d.RoleID,
		&d.PermissionID,
		&d.CreatedAt,
		&d.RoleName,
		&d.Permission.ID,
		&d.Permission.Module,
		&d.Permission.Action,
		&d.Permission.Resource,
		&d.Permission.Description,
		&d.Permission.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (db *Postgres) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*model.RolePermissionDetail, error) {
	rows, err := db.Pool.Query(ctx,
		rolePermissionDetailQuery+` WHERE rp.role_id = $1 ORDER BY rp.created_at`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*model.RolePermissionDetail
	for rows.Next() {
		d, err := scanRolePermissionDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (db *Postgres) RolePermissionExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles_permissions WHERE role_id = $1 AND permission_id = $2)`,
		roleID, permissionID).Scan(&exists)
	return exists, err
}

func (db *Postgres) AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) (*model.RolePermissionDetail, error) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO roles_permissions (role_id, permission_id, created_at)
		VALUES ($1, $2, NOW())
	`, roleID, permissionID)
	if err != nil {
		return nil, err
	}
	return scanRolePermissionDetail(db.Pool.QueryRow(ctx,
		rolePermissionDetailQuery+` WHERE rp.role_id = $1 AND rp.permission_id = $2`, roleID, permissionID))
}

func (db *Postgres) RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM roles_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// PermissionsForRole returns the permission catalog granted to a role.
func (db *Postgres) PermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]*model.Permission, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT p.id, p.module, p.action, p.resource, p.description, p.created_at
		FROM permissions p
		JOIN roles_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = $1
	`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*model.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
