package repository

import (
	"context"

	"github.com/google/uuid"

	"customer-api/internal/domain"
)

// CustomerRepository exposes persistence operations for Customer records.
//
// Get, Update and Delete report domain.ErrCustomerNotFound (possibly wrapped)
// when no row matches the id. Search with an empty text returns every record;
// otherwise it returns records whose first or last name contains text as a
// case-sensitive substring.
type CustomerRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, customer *domain.Customer) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	Search(ctx context.Context, text string) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
