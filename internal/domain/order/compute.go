package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/salekit/sale-api/internal/domain/pricelist"
	"github.com/salekit/sale-api/internal/domain/pricing"
)

// PriceSource resolves the unique price list entry for a product item.
// pricelist.Repository satisfies it.
type PriceSource interface {
	FindItem(ctx context.Context, priceListID, itemID string) (*pricelist.Item, error)
}

// lineResult holds a fully computed set of line fields. Computation builds
// the result first and commits it onto the line only when every validation
// passed, so a failed computation leaves the line untouched.
type lineResult struct {
	unitPriceUntaxed decimal.Decimal
	unitPrice        decimal.Decimal
	unitTax          decimal.Decimal
	amountUntaxed    decimal.Decimal
	amountTax        decimal.Decimal
	amountTotal      decimal.Decimal
}

func (r lineResult) commit(l *Line) {
	l.UnitPriceUntaxed = r.unitPriceUntaxed
	l.UnitPrice = r.unitPrice
	l.UnitTax = r.unitTax
	l.AmountUntaxed = r.amountUntaxed
	l.AmountTax = r.amountTax
	l.AmountTotal = r.amountTotal
}

// ComputeLine recomputes all derived fields of a line, atomically.
//
// Without a price list on the order, the unit price inputs are validated and
// one of three strategies resolves the per-unit triple: gross authoritative
// (unit_price set), net authoritative (unit_price_untaxed set), or gross
// authoritative when both are set. With a price list, the unit price inputs
// are ignored and the triple is copied from the list's entry for the item.
//
// The triple is then scaled by quantity and at most one discount input is
// applied (first non-zero in priority order: fixed net, net percentage,
// fixed gross, gross percentage).
func ComputeLine(ctx context.Context, line *Line, o *Order, prices PriceSource) error {
	var res lineResult
	var err error

	if o.PriceListID == "" {
		res, err = computeUnitPrice(line)
	} else {
		res, err = lookupUnitPrice(ctx, line, o, prices)
	}
	if err != nil {
		return err
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	res.amountTotal = res.unitPrice.Mul(qty).Round(2)
	res.amountUntaxed = res.unitPriceUntaxed.Mul(qty).Round(2)
	res.amountTax = res.amountTotal.Sub(res.amountUntaxed)

	spec := pricing.ResolveDiscountSpec(
		line.AmountDiscountUntaxed,
		line.AmountDiscountPercentageUntaxed,
		line.AmountDiscount,
		line.AmountDiscountPercentage,
	)
	if spec.Kind != pricing.DiscountNone {
		price := &pricing.TaxedPrice{
			Net:      res.amountUntaxed,
			Gross:    res.amountTotal,
			Tax:      res.amountTax,
			Currency: pricing.DefaultCurrency,
		}
		discounted, err := spec.Apply(price, res.unitTax)
		if err != nil {
			return err
		}
		res.amountUntaxed = discounted.Net
		res.amountTotal = discounted.Gross
		res.amountTax = discounted.Tax
	}

	res.commit(line)
	return nil
}

// computeUnitPrice validates the explicit unit price inputs and resolves the
// per-unit triple through the price calculator.
func computeUnitPrice(line *Line) (lineResult, error) {
	if err := checkUnitPrice(line); err != nil {
		return lineResult{}, err
	}

	keepGross, err := resolveStrategy(line)
	if err != nil {
		return lineResult{}, err
	}

	price, err := pricing.ComputePrice(
		line.UnitPriceUntaxed, line.UnitPrice, line.UnitTax,
		pricing.DefaultCurrency, keepGross,
	)
	if err != nil {
		return lineResult{}, err
	}
	tax, err := pricing.NormalizeTax(line.UnitTax)
	if err != nil {
		return lineResult{}, err
	}

	return lineResult{
		unitPriceUntaxed: price.Net,
		unitPrice:        price.Gross,
		unitTax:          tax,
	}, nil
}

// lookupUnitPrice copies the per-unit triple from the order's price list.
// Explicit unit price inputs on the line are ignored in this branch.
func lookupUnitPrice(ctx context.Context, line *Line, o *Order, prices PriceSource) (lineResult, error) {
	item, err := prices.FindItem(ctx, o.PriceListID, line.ItemID)
	if err != nil {
		if errors.Is(err, pricelist.ErrPriceNotFound) {
			return lineResult{}, &PriceNotFoundError{Item: line.ItemID, PriceList: o.PriceListID}
		}
		return lineResult{}, errors.Wrap(err, "find price list item")
	}

	return lineResult{
		unitPriceUntaxed: item.UnitPriceUntaxed,
		unitPrice:        item.UnitPrice,
		unitTax:          item.UnitTax,
	}, nil
}

// checkUnitPrice enforces consistency between unit_price_untaxed, unit_price
// and unit_tax before any computation runs.
func checkUnitPrice(line *Line) error {
	if line.UnitPriceUntaxed.IsNegative() ||
		line.UnitPrice.IsNegative() ||
		line.UnitTax.IsNegative() {
		return errNegativeUnitPrice
	}

	if !line.UnitPriceUntaxed.Equal(line.UnitPrice) && line.UnitTax.IsZero() {
		return errUnitPriceMismatch
	}

	if !line.UnitTax.IsZero() {
		if line.UnitPriceUntaxed.GreaterThanOrEqual(line.UnitPrice) && !line.UnitPrice.IsZero() {
			return errNetExceedsGross
		}
	}

	return nil
}

// resolveStrategy picks the authoritative side of the unit price. Gross wins
// whenever unit_price is set; net is used when only unit_price_untaxed is
// set; with neither there is nothing to compute from.
func resolveStrategy(line *Line) (keepGross bool, err error) {
	grossSet := !line.UnitPrice.IsZero()
	netSet := !line.UnitPriceUntaxed.IsZero()

	switch {
	case grossSet:
		return true, nil
	case netSet:
		return false, nil
	default:
		return false, ErrNoStrategy
	}
}
