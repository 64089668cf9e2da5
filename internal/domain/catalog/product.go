// Package catalog holds the product items that order lines and price-list
// entries refer to.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product item does not exist.
var ErrNotFound = errors.New("product item not found")

// Item is a sellable product identified by a unique code.
type Item struct {
	ID   string
	Code string
	Name string
}

// Repository defines persistence operations for catalog items.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
}
