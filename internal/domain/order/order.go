// Package order implements sale orders and their lines: lifecycle states,
// per-line price computation, and order total aggregation.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order owns an ordered collection of lines and carries aggregated totals.
// Totals are recomputed from the lines by ComputeTotals, never maintained
// incrementally, so they can go stale until an explicit recomputation runs.
type Order struct {
	ID             string
	Code           string
	Channel        string
	DeliveryMethod string

	CustomerID        string
	CustomerAddressID string
	DeliveryAddressID string
	PriceListID       string

	State State

	AmountUntaxed decimal.Decimal
	AmountTax     decimal.Decimal
	AmountTotal   decimal.Decimal

	Lines []*Line

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeTotals sums the current line totals into the order-level amounts.
// It has no side effects on the lines and is idempotent.
func (o *Order) ComputeTotals() {
	untaxed := decimal.Zero
	tax := decimal.Zero
	total := decimal.Zero

	for _, line := range o.Lines {
		untaxed = untaxed.Add(line.AmountUntaxed)
		tax = tax.Add(line.AmountTax)
		total = total.Add(line.AmountTotal)
	}

	o.AmountUntaxed = untaxed
	o.AmountTax = tax
	o.AmountTotal = total
}

// Line belongs to exactly one order and references exactly one product item.
// Unit prices hold the per-unit triple (net, gross, normalized tax fraction);
// amount fields hold the quantity-scaled, discount-adjusted line totals.
// After computation amount_total - amount_untaxed == amount_tax always holds.
type Line struct {
	ID      string
	OrderID string
	ItemID  string

	Quantity int

	UnitPriceUntaxed decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitTax          decimal.Decimal

	// Discount inputs, mutually exclusive in fixed priority order:
	// fixed net amount, net fraction, fixed gross amount, gross fraction.
	// The first non-zero one is applied, the rest are ignored.
	AmountDiscountUntaxed           decimal.Decimal
	AmountDiscountPercentageUntaxed decimal.Decimal
	AmountDiscount                  decimal.Decimal
	AmountDiscountPercentage        decimal.Decimal

	AmountUntaxed decimal.Decimal
	AmountTax     decimal.Decimal
	AmountTotal   decimal.Decimal

	Properties map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for orders and lines.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// Get loads an order together with its lines.
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	CreateLine(ctx context.Context, l *Line) error
	GetLine(ctx context.Context, id string) (*Line, error)
	UpdateLine(ctx context.Context, l *Line) error
}
