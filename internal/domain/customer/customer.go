// Package customer holds the customer and address entities referenced by
// sale orders.
package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a buyer that orders can be attached to.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Address is a postal address usable as billing or delivery target.
type Address struct {
	ID         string
	CustomerID string
	Street     string
	Zip        string
	City       string
	Country    string
}

// Repository defines persistence operations for customers and addresses.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	AddAddress(ctx context.Context, a *Address) error
	ListAddresses(ctx context.Context, customerID string) ([]Address, error)
}
