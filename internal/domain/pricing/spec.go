package pricing

import "github.com/shopspring/decimal"

// DiscountKind enumerates the supported discount strategies.
type DiscountKind int

const (
	// DiscountNone leaves the price untouched.
	DiscountNone DiscountKind = iota
	// DiscountFixedNet subtracts a fixed amount from the net price.
	DiscountFixedNet
	// DiscountPercentNet subtracts a fraction of the net price.
	DiscountPercentNet
	// DiscountFixedGross subtracts a fixed amount from the gross price.
	DiscountFixedGross
	// DiscountPercentGross subtracts a fraction of the gross price.
	DiscountPercentGross
)

// DiscountSpec is a resolved discount: exactly one strategy and its value.
// The zero value is DiscountNone.
type DiscountSpec struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// FixedNet builds a net-based fixed-amount discount.
func FixedNet(amount decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountFixedNet, Value: amount}
}

// PercentNet builds a net-based percentage discount (fraction in [0, 1]).
func PercentNet(fraction decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountPercentNet, Value: fraction}
}

// FixedGross builds a gross-based fixed-amount discount.
func FixedGross(amount decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountFixedGross, Value: amount}
}

// PercentGross builds a gross-based percentage discount (fraction in [0, 1]).
func PercentGross(fraction decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: DiscountPercentGross, Value: fraction}
}

// ResolveDiscountSpec selects at most one discount from the four optional
// inputs, in fixed priority order: fixed net amount, net percentage, fixed
// gross amount, gross percentage. The first non-zero input wins; all zero
// inputs resolve to DiscountNone.
func ResolveDiscountSpec(fixedNet, percentNet, fixedGross, percentGross decimal.Decimal) DiscountSpec {
	switch {
	case !fixedNet.IsZero():
		return FixedNet(fixedNet)
	case !percentNet.IsZero():
		return PercentNet(percentNet)
	case !fixedGross.IsZero():
		return FixedGross(fixedGross)
	case !percentGross.IsZero():
		return PercentGross(percentGross)
	default:
		return DiscountSpec{}
	}
}

// Apply runs the resolved discount against a price via ComputeDiscount.
// A DiscountNone spec returns the price unchanged.
func (s DiscountSpec) Apply(price *TaxedPrice, taxRaw decimal.Decimal) (*TaxedPrice, error) {
	switch s.Kind {
	case DiscountFixedNet:
		return ComputeDiscount(price, taxRaw, s.Value, decimal.Zero, false)
	case DiscountPercentNet:
		return ComputeDiscount(price, taxRaw, decimal.Zero, s.Value, false)
	case DiscountFixedGross:
		return ComputeDiscount(price, taxRaw, s.Value, decimal.Zero, true)
	case DiscountPercentGross:
		return ComputeDiscount(price, taxRaw, decimal.Zero, s.Value, true)
	default:
		return price, nil
	}
}
