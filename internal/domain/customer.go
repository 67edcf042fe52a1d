package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is returned when an operation targets an unknown customer id.
var ErrCustomerNotFound = errors.New("customer not found")

// Customer is a single customer record.
type Customer struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth Date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
