package db

import (
	"context"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

const roleColumns = `id, name, description, is_system, active, created_at`

func scanRole(row interface{ Scan(...any) error }) (*model.Role, error) {
	var r model.Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.IsSystem, &r.Active, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *Postgres) CreateRole(ctx context.Context, r *model.Role) (*model.Role, error) {
	query := `
		INSERT INTO roles (id, name, description, is_system, active, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + roleColumns
	return scanRole(db.Pool.QueryRow(ctx, query, r.ID, r.Name, r.Description, r.IsSystem, r.Active))
}

func (db *Postgres) GetRoleByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	return scanRole(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	return scanRole(db.Pool.QueryRow(ctx, query, name))
}

func (db *Postgres) ListRoles(ctx context.Context) ([]*model.Role, error) {
	return db.listRoles(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY created_at`)
}

func (db *Postgres) ListActiveRoles(ctx context.Context) ([]*model.Role, error) {
	return db.listRoles(ctx, `SELECT `+roleColumns+` FROM roles WHERE active = TRUE ORDER BY created_at`)
}

func (db *Postgres) ListInactiveRoles(ctx context.Context) ([]*model.Role, error) {
	return db.listRoles(ctx, `SELECT `+roleColumns+` FROM roles WHERE active = FALSE ORDER BY created_at`)
}

func (db *Postgres) listRoles(ctx context.Context, query string) ([]*model.Role, error) {
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*model.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (db *Postgres) UpdateRole(ctx context.Context, r *model.Role) (*model.Role, error) {
	query := `
		UPDATE roles
		SET name = $2, description = $3, is_system = $4, active = $5
		WHERE id = $1
		RETURNING ` + roleColumns
	return scanRole(db.Pool.QueryRow(ctx, query, r.ID, r.Name, r.Description, r.IsSystem, r.Active))
}

func (db *Postgres) SetRoleActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := db.Pool.Exec(ctx, `UPDATE roles SET active = $2 WHERE id = $1`, id, active)
	return err
}

func (db *Postgres) RoleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (db *Postgres) RoleNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}
