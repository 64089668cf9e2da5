package pricelist

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salekit/sale-api/internal/domain/pricing"
)

// ComputeItemPrice resolves the canonical price triple for a catalog entry.
// It is the price-list flavor of pricing.ComputePrice: same flat-tax
// algorithm, applied once at entry creation.
func ComputeItemPrice(net, gross, taxRaw decimal.Decimal, keepGross bool) (pricing.TaxedPrice, error) {
	return pricing.ComputePrice(net, gross, taxRaw, pricing.DefaultCurrency, keepGross)
}

// Service orchestrates price list and price list item creation.
type Service struct {
	repo Repository
}

// NewService creates a price list Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateList creates a new named price list.
func (s *Service) CreateList(ctx context.Context, code, name string) (*PriceList, error) {
	pl := &PriceList{
		ID:   uuid.New().String(),
		Code: code,
		Name: name,
	}
	if err := s.repo.CreateList(ctx, pl); err != nil {
		return nil, errors.Wrap(err, "create price list")
	}
	return pl, nil
}

// CreateItemRequest holds the pricing inputs for a new price list entry.
// UnitPrice is the gross amount, UnitPriceUntaxed the net amount; either may
// be zero, the non-zero one drives the computation (gross wins when both are
// set). UnitTax accepts a fraction or a percentage.
type CreateItemRequest struct {
	PriceListID      string
	ItemID           string
	UnitPrice        decimal.Decimal
	UnitPriceUntaxed decimal.Decimal
	UnitTax          decimal.Decimal
}

// CreateItem computes the canonical price triple for a product on a price
// list and persists it. A duplicate (price list, item) pair surfaces as
// ErrDuplicateItem from the repository, propagated untouched.
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	keepGross := !req.UnitPrice.IsZero() || req.UnitPriceUntaxed.IsZero()

	price, err := ComputeItemPrice(req.UnitPriceUntaxed, req.UnitPrice, req.UnitTax, keepGross)
	if err != nil {
		return nil, err
	}
	tax, err := pricing.NormalizeTax(req.UnitTax)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ID:               uuid.New().String(),
		PriceListID:      req.PriceListID,
		ItemID:           req.ItemID,
		UnitPriceUntaxed: price.Net,
		UnitPrice:        price.Gross,
		UnitTax:          tax,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
