// Package memory holds map-backed repositories used by tests and by the
// memory database driver. Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"customer-api/internal/domain"
	"customer-api/internal/repository"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[uuid.UUID]domain.Customer)}
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Init(context.Context) error { return nil }

func (r *CustomerRepository) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("insert customer: duplicate id %s", customer.ID)
	}
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepository) Get(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &customer, nil
}

func (r *CustomerRepository) Search(_ context.Context, text string) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Customer{}
	for _, c := range r.customers {
		if text == "" || strings.Contains(c.FirstName, text) || strings.Contains(c.LastName, text) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *CustomerRepository) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.customers[customer.ID]
	if !ok {
		return fmt.Errorf("customer %s: %w", customer.ID, domain.ErrCustomerNotFound)
	}
	existing.FirstName = customer.FirstName
	existing.LastName = customer.LastName
	existing.DateOfBirth = customer.DateOfBirth
	existing.UpdatedAt = time.Now().UTC()
	r.customers[customer.ID] = existing
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *CustomerRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return fmt.Errorf("customer %s: %w", id, domain.ErrCustomerNotFound)
	}
	delete(r.customers, id)
	return nil
}

// Len reports the number of stored customers.
func (r *CustomerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}
