package db

import (
	"context"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

const permissionColumns = `id, module, action, resource, description, created_at`

func scanPermission(row interface{ Scan(...any) error }) (*model.Permission, error) {
	var p model.Permission
	err := row.Scan(&p.ID, &p.Module, &p.Action, &p.Resource, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) CreatePermission(ctx context.Context, p *model.Permission) (*model.Permission, error) {
	query := `
		INSERT INTO permissions (id, module, action, resource, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + permissionColumns
	return scanPermission(db.Pool.QueryRow(ctx, query, p.ID, p.Module, p.Action, p.Resource, p.Description))
}

func (db *Postgres) GetPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1`
	return scanPermission(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions ORDER BY module, action`
	rows, err := db.Pool.Query(ctx, query)
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

func (db *Postgres) ListPermissionsByModule(ctx context.Context, module string) ([]*model.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE module = $1 ORDER BY action`
	rows, err := db.Pool.Query(ctx, query, module)
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

func (db *Postgres) UpdatePermission(ctx context.Context, p *model.Permission) (*model.Permission, error) {
	query := `
		UPDATE permissions
		SET module = $2, action = $3, resource = $4, description = $5
		WHERE id = $1
		RETURNING ` + permissionColumns
	return scanPermission(db.Pool.QueryRow(ctx, query, p.ID, p.Module, p.Action, p.Resource, p.Description))
}

func (db *Postgres) DeletePermission(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *Postgres) PermissionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM permissions WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// PermissionTripleExists matches NULL resources as a distinct value, the
// same way the unique index does.
func (db *Postgres) PermissionTripleExists(ctx context.Context, module, action string, resource *string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM permissions
			WHERE module = $1 AND action = $2
			AND (resource = $3 OR ($3::TEXT IS NULL AND resource IS NULL))
		)
	`, module, action, resource).Scan(&exists)
	return exists, err
}
