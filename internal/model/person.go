package model

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID             uuid.UUID
	DocumentNumber string
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Phone          string
	Email          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PersonRequest struct {
	DocumentNumber string     `json:"documentNumber" binding:"required"`
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName" binding:"required"`
	BirthDate      *time.Time `json:"birthDate"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Address        string     `json:"address"`
}

type PersonResponse struct {
	ID             uuid.UUID  `json:"id"`
	DocumentNumber string     `json:"documentNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (p *Person) ToResponse() PersonResponse {
	return PersonResponse{
		ID:             p.ID,
		DocumentNumber: p.DocumentNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		BirthDate:      p.BirthDate,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
