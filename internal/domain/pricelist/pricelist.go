// Package pricelist manages named price catalogs and their per-product
// price entries.
package pricelist

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested price list does not exist.
	ErrNotFound = errors.New("price list not found")
	// ErrPriceNotFound is returned when a price list has no entry for the
	// requested product item.
	ErrPriceNotFound = errors.New("price list item not found")
	// ErrDuplicateItem is returned when an entry for the same
	// (price list, item) pair already exists. The database enforces the
	// uniqueness; storage maps the violation to this sentinel and it is
	// propagated untouched.
	ErrDuplicateItem = errors.New("price list item already exists")
)

// PriceList is a named catalog of per-product prices.
type PriceList struct {
	ID   string
	Code string
	Name string
}

// Item is the canonical price of one product on one price list. The triple
// is computed once at creation and persisted; entries are replaced, never
// partially updated.
type Item struct {
	ID               string
	PriceListID      string
	ItemID           string
	UnitPriceUntaxed decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitTax          decimal.Decimal
}

// Repository defines persistence operations for price lists and their items.
type Repository interface {
	CreateList(ctx context.Context, pl *PriceList) error
	GetListByID(ctx context.Context, id string) (*PriceList, error)
	GetListByCode(ctx context.Context, code string) (*PriceList, error)
	CreateItem(ctx context.Context, item *Item) error
	// FindItem returns the unique entry for (priceListID, itemID), or
	// ErrPriceNotFound when the list has no price for that product.
	FindItem(ctx context.Context, priceListID, itemID string) (*Item, error)
}
