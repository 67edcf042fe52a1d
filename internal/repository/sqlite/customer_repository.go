package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"customer-api/internal/domain"
	"customer-api/internal/repository"
)

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_customers_names ON customers(last_name, first_name);
`

const selectCustomerColumns = `SELECT id, first_name, last_name, date_of_birth, created_at, updated_at FROM customers`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCustomersTable); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO customers (id, first_name, last_name, date_of_birth, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		customer.ID.String(),
		customer.FirstName,
		customer.LastName,
		customer.DateOfBirth,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, selectCustomerColumns+` WHERE id = ?`, id.String())
	return scanCustomer(row)
}

// Search uses instr rather than LIKE so matching stays case-sensitive.
func (r *CustomerRepository) Search(ctx context.Context, text string) ([]domain.Customer, error) {
	query := selectCustomerColumns
	var args []any
	if text != "" {
		query += ` WHERE instr(first_name, ?) > 0 OR instr(last_name, ?) > 0`
		args = append(args, text, text)
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}

	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE customers
SET first_name=?, last_name=?, date_of_birth=?, updated_at=?
WHERE id=?`,
		customer.FirstName,
		customer.LastName,
		customer.DateOfBirth,
		customer.UpdatedAt,
		customer.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return requireAffected(res, customer.ID)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=?`, id.String())
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("customer rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("customer %s: %w", id, domain.ErrCustomerNotFound)
	}
	return nil
}

func scanCustomer(scanner interface {
	Scan(dest ...any) error
}) (*domain.Customer, error) {
	var (
		customer domain.Customer
		id       string
	)
	if err := scanner.Scan(
		&id,
		&customer.FirstName,
		&customer.LastName,
		&customer.DateOfBirth,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse customer id %q: %w", id, err)
	}
	customer.ID = parsed
	customer.CreatedAt = customer.CreatedAt.Local()
	customer.UpdatedAt = customer.UpdatedAt.Local()
	return &customer, nil
}
