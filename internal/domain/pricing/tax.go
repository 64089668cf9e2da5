package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrTaxRange is returned when a raw tax value cannot be normalized to a
// fraction. The message is part of the public contract and asserted by
// callers, do not reword it.
var ErrTaxRange = errors.New("Tax must be a value between 0 and 1")

var hundred = decimal.NewFromInt(100)

// NormalizeTax converts a raw tax input into a canonical fraction in [0, 1],
// quantized to 4 decimal places.
//
// Accepted inputs:
//   - 0            → 0 (untaxed)
//   - (0, 1]       → already a fraction, kept as-is
//   - (1, 100]     → a percentage, divided by 100
//
// Anything else (negative, or above 100) fails with ErrTaxRange. Exactly 1
// means 100% tax, never 1%.
func NormalizeTax(raw decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case raw.IsZero():
		return decimal.Zero.Round(taxPlaces), nil
	case raw.GreaterThan(one) && raw.LessThanOrEqual(hundred):
		return raw.Div(hundred).Round(taxPlaces), nil
	case raw.IsPositive() && raw.LessThanOrEqual(one):
		return raw.Round(taxPlaces), nil
	default:
		return decimal.Zero, ErrTaxRange
	}
}
