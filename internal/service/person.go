package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PersonRepo interface {
	CreatePerson(ctx context.Context, p *model.Person) (*model.Person, error)
	GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	ListPersons(ctx context.Context) ([]*model.Person, error)
	UpdatePerson(ctx context.Context, p *model.Person) (*model.Person, error)
	DeletePerson(ctx context.Context, id uuid.UUID) (bool, error)
}

type PersonService struct {
	repo      PersonRepo
	notFound  func(error) bool
	duplicate func(error) bool
	log       *zap.Logger
}

func NewPersonService(repo PersonRepo, notFound, duplicate func(error) bool, log *zap.Logger) *PersonService {
	return &PersonService{repo: repo, notFound: notFound, duplicate: duplicate, log: log}
}

func (s *PersonService) Create(ctx context.Context, req model.PersonRequest) (*model.Person, error) {
	if strings.TrimSpace(req.DocumentNumber) == "" {
		return nil, fmt.Errorf("%w: document number is required", ErrInvalidInput)
	}

	person, err := s.repo.CreatePerson(ctx, &model.Person{
		ID:             uuid.New(),
		DocumentNumber: req.DocumentNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BirthDate:      req.BirthDate,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
	})
	if err != nil {
		if s.duplicate(err) {
			return nil, fmt.Errorf("%w: document number %s", ErrDuplicate, req.DocumentNumber)
		}
		return nil, err
	}
	s.log.Info("person created", zap.String("personId", person.ID.String()))
	return person, nil
}

func (s *PersonService) GetByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	person, err := s.repo.GetPersonByID(ctx, id)
	if err != nil {
		if s.notFound(err) {
			return nil, fmt.Errorf("%w: person %s", ErrNotFound, id)
		}
		return nil, err
	}
	return person, nil
}

func (s *PersonService) List(ctx context.Context) ([]*model.Person, error) {
	return s.repo.ListPersons(ctx)
}

func (s *PersonService) Update(ctx context.Context, id uuid.UUID, req model.PersonRequest) (*model.Person, error) {
	person, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	person.DocumentNumber = req.DocumentNumber
	person.FirstName = req.FirstName
	person.LastName = req.LastName
	person.BirthDate = req.BirthDate
	person.Phone = req.Phone
	person.Email = req.Email
	person.Address = req.Address

	updated, err := s.repo.UpdatePerson(ctx, person)
	if err != nil {
		if s.duplicate(err) {
			return nil, fmt.Errorf("%w: document number %s", ErrDuplicate, req.DocumentNumber)
		}
		return nil, err
	}
	return updated, nil
}

func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.DeletePerson(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: person %s", ErrNotFound, id)
	}
	s.log.Info("person deleted", zap.String("personId", id.String()))
	return nil
}
