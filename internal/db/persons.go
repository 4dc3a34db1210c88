package db

import (
	"context"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

const personColumns = `id, document_number, first_name, last_name, birth_date, phone, email, address, created_at, updated_at`

func scanPerson(row interface{ Scan(...any) error }) (*model.Person, error) {
	var p model.Person
	err := row.Scan(
		&p.ID,
		&p.DocumentNumber,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&p.Phone,
		&p.Email,
		&p.Address,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) CreatePerson(ctx context.Context, p *model.Person) (*model.Person, error) {
	query := `
		INSERT INTO persons (id, document_number, first_name, last_name, birth_date, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + personColumns
	return scanPerson(db.Pool.QueryRow(ctx, query,
		p.ID, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Email, p.Address))
}

func (db *Postgres) GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	return scanPerson(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListPersons(ctx context.Context) ([]*model.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []*model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (db *Postgres) UpdatePerson(ctx context.Context, p *model.Person) (*model.Person, error) {
	query := `
		UPDATE persons
		SET document_number = $2, first_name = $3, last_name = $4, birth_date = $5,
		    phone = $6, email = $7, address = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + personColumns
	return scanPerson(db.Pool.QueryRow(ctx, query,
		p.ID, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate, p.Phone, p.Email, p.Address))
}

func (db *Postgres) DeletePerson(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
