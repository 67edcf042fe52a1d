package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"customer-api/internal/domain"
	"customer-api/internal/repository"
)

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
	id UUID PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	date_of_birth DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_customers_names ON customers(last_name, first_name);
`

const selectCustomerColumns = `SELECT id, first_name, last_name, date_of_birth, created_at, updated_at FROM customers`

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

type CustomerRepo struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func (r *CustomerRepo) Init(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, createCustomersTable); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	return nil
}

func (r *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, first_name, last_name, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		customer.ID, customer.FirstName, customer.LastName, customer.DateOfBirth.Time(),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := r.q.QueryRow(ctx, selectCustomerColumns+` WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Search uses strpos so matching stays case-sensitive, like the other stores.
func (r *CustomerRepo) Search(ctx context.Context, text string) ([]domain.Customer, error) {
	query := selectCustomerColumns
	var args []any
	if text != "" {
		query += ` WHERE strpos(first_name, $1) > 0 OR strpos(last_name, $1) > 0`
		args = append(args, text)
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	tag, err := r.q.Exec(ctx, `
		UPDATE customers SET first_name = $2, last_name = $3, date_of_birth = $4, updated_at = $5
		WHERE id = $1`,
		customer.ID, customer.FirstName, customer.LastName, customer.DateOfBirth.Time(), customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", customer.ID, domain.ErrCustomerNotFound)
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, domain.ErrCustomerNotFound)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c   domain.Customer
		dob time.Time
	)
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &dob, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.DateOfBirth = domain.DateOf(dob)
	return &c, nil
}
