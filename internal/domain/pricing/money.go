// Package pricing implements tax-inclusive/exclusive price computation:
// tax rate normalization, flat-tax net/gross resolution, and fixed or
// percentage discounts.
//
// All arithmetic uses exact decimals. Monetary amounts are quantized to 2
// decimal places, tax fractions to 4, both with half-up rounding.
package pricing

import "github.com/shopspring/decimal"

// DefaultCurrency is used when a computation is invoked without an explicit
// currency code.
const DefaultCurrency = "EUR"

// Quantization levels for the two value kinds handled by this package.
const (
	moneyPlaces = 2
	taxPlaces   = 4
)

var one = decimal.NewFromInt(1)

// TaxedPrice is a consistent (net, gross, tax) triple in a single currency.
// The invariant Gross = Net + Tax holds at 2 decimal places for every value
// produced by this package.
type TaxedPrice struct {
	Net      decimal.Decimal
	Gross    decimal.Decimal
	Tax      decimal.Decimal
	Currency string
}

// Untaxed reports whether the price carries no tax component.
func (p TaxedPrice) Untaxed() bool {
	return p.Tax.IsZero()
}

// Equal reports whether two prices have the same amounts and currency.
func (p TaxedPrice) Equal(other TaxedPrice) bool {
	return p.Currency == other.Currency &&
		p.Net.Equal(other.Net) &&
		p.Gross.Equal(other.Gross) &&
		p.Tax.Equal(other.Tax)
}
