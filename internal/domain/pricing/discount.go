package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Discount validation errors. The messages are part of the public contract
// and asserted by callers, do not reword them.
var (
	ErrDiscountAmountRange  = errors.New("Discount amount must be a positive value")
	ErrDiscountPercentRange = errors.New("Discount percent must be a value between 0 and 1")
	ErrTaxMismatch          = errors.New("Tax is set to 0 but gross and net price amount are different")
)

// ComputeDiscount applies a fixed amount or a percentage discount to a price
// and re-derives a consistent taxed triple.
//
// When both amount and percent are non-zero only the amount is honored.
// With fromGross=true the discount is taken off the gross amount and net/tax
// are recomputed keeping gross; with fromGross=false it is taken off the net
// amount, recomputing gross/tax from net. Percent is a fraction in [0, 1].
//
// A nil price makes the discount a no-op and returns nil. A zero amount and
// zero percent return the price unchanged.
func ComputeDiscount(price *TaxedPrice, taxRaw, amount, percent decimal.Decimal, fromGross bool) (*TaxedPrice, error) {
	if price == nil {
		return nil, nil
	}

	if taxRaw.IsZero() && !price.Net.Equal(price.Gross) {
		return nil, ErrTaxMismatch
	}

	if amount.IsZero() && percent.IsZero() {
		return price, nil
	}

	base := price.Net
	if fromGross {
		base = price.Gross
	}

	if !amount.IsZero() {
		if amount.IsNegative() {
			return nil, ErrDiscountAmountRange
		}
		return recompute(base.Sub(amount), taxRaw, price.Currency, fromGross)
	}

	if percent.IsNegative() || percent.GreaterThan(one) {
		return nil, ErrDiscountPercentRange
	}
	cut := base.Mul(percent).Round(moneyPlaces)
	return recompute(base.Sub(cut), taxRaw, price.Currency, fromGross)
}

func recompute(base, taxRaw decimal.Decimal, currency string, fromGross bool) (*TaxedPrice, error) {
	var p TaxedPrice
	var err error
	if fromGross {
		p, err = ComputePrice(decimal.Zero, base, taxRaw, currency, true)
	} else {
		p, err = ComputePrice(base, decimal.Zero, taxRaw, currency, false)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
