package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"customer-api/internal/domain"
	"customer-api/internal/repository"
)

// CustomerInput carries the mutable fields of a customer.
type CustomerInput struct {
	FirstName   string
	LastName    string
	DateOfBirth domain.Date
}

// CustomerView is the read-only projection returned by searches.
type CustomerView struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth domain.Date `json:"dateOfBirth"`
}

// CustomerService runs the customer commands and queries against a repository.
// Edit and Delete return domain.ErrCustomerNotFound for unknown ids.
type CustomerService interface {
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	Edit(ctx context.Context, id uuid.UUID, in CustomerInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*CustomerView, error)
	Search(ctx context.Context, text string) ([]CustomerView, error)
}

type customerService struct {
	customers repository.CustomerRepository
	newID     func() uuid.UUID
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{
		customers: customers,
		newID:     uuid.New,
	}
}

func (s *customerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:          s.newID(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Edit(ctx context.Context, id uuid.UUID, in CustomerInput) error {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("edit customer %s: %w", id, err)
	}

	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	customer.DateOfBirth = in.DateOfBirth

	if err := s.customers.Update(ctx, customer); err != nil {
		return fmt.Errorf("edit customer %s: %w", id, err)
	}
	return nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.Get(ctx, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toView(*customer)
	return &view, nil
}

func (s *customerService) Search(ctx context.Context, text string) ([]CustomerView, error) {
	customers, err := s.customers.Search(ctx, text)
	if err != nil {
		return nil, err
	}

	views := make([]CustomerView, len(customers))
	for i := range customers {
		views[i] = toView(customers[i])
	}
	return views, nil
}

func toView(c domain.Customer) CustomerView {
	return CustomerView{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DateOfBirth: c.DateOfBirth,
	}
}
