package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeDiscount_NilPrice(t *testing.T) {
	got, err := ComputeDiscount(nil, decimal.Zero, d("1"), decimal.Zero, true)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ComputeDiscount(nil, decimal.Zero, decimal.Zero, decimal.Zero, true)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestComputeDiscount_NoInputsReturnsPriceUnchanged(t *testing.T) {
	price := mustPrice(t, "100", "0", "0.2", false)

	got, err := ComputeDiscount(&price, d("0.2"), decimal.Zero, decimal.Zero, true)
	require.NoError(t, err)
	assert.True(t, price.Equal(*got))
}

func TestComputeDiscount_FixedFromNetNoTax(t *testing.T) {
	price := mustPrice(t, "100", "0", "0", false)

	got, err := ComputeDiscount(&price, decimal.Zero, d("9.99"), decimal.Zero, false)
	require.NoError(t, err)
	assertAmounts(t, *got, "90.01", "90.01", "0")
	assert.Equal(t, "EUR", got.Currency)
}

func TestComputeDiscount_PercentageFromNetNoTax(t *testing.T) {
	price := mustPrice(t, "100", "0", "0", false)

	got, err := ComputeDiscount(&price, decimal.Zero, decimal.Zero, d("0.1"), false)
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "90", "0")
}

// Only the fixed amount applies when both inputs are set.
func TestComputeDiscount_AmountWinsOverPercent(t *testing.T) {
	price := mustPrice(t, "100", "0", "0", false)

	got, err := ComputeDiscount(&price, decimal.Zero, d("9.99"), d("0.1"), false)
	require.NoError(t, err)
	assertAmounts(t, *got, "90.01", "90.01", "0")
}

func TestComputeDiscount_FixedFromNetWithTax(t *testing.T) {
	price := mustPrice(t, "100", "0", "0.2", false)
	assertAmounts(t, price, "100", "120", "20")

	got, err := ComputeDiscount(&price, d("0.2"), d("10"), decimal.Zero, false)
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "108", "18")
}

func TestComputeDiscount_PercentageFromNetWithTax(t *testing.T) {
	price := mustPrice(t, "100", "0", "0.2", false)

	got, err := ComputeDiscount(&price, d("0.2"), decimal.Zero, d("0.1"), false)
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "108", "18")
}

func TestComputeDiscount_AmountWinsOverPercentWithTax(t *testing.T) {
	price := mustPrice(t, "83.33", "0", "0.2", false)
	assertAmounts(t, price, "83.33", "100", "16.67")

	got, err := ComputeDiscount(&price, d("0.2"), d("9.99"), d("0.1"), false)
	require.NoError(t, err)
	assertAmounts(t, *got, "73.34", "88.01", "14.67")
}

func TestComputeDiscount_FixedFromGross(t *testing.T) {
	price := mustPrice(t, "0", "120", "0.2", true)
	assertAmounts(t, price, "100", "120", "20")

	got, err := ComputeDiscount(&price, d("0.2"), d("10"), decimal.Zero, true)
	require.NoError(t, err)
	assertAmounts(t, *got, "91.67", "110", "18.33")
}

func TestComputeDiscount_PercentageFromGross(t *testing.T) {
	price := mustPrice(t, "0", "120", "0.2", true)

	got, err := ComputeDiscount(&price, d("0.2"), decimal.Zero, d("0.1"), true)
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "108", "18")
}

func TestComputeDiscount_NegativeAmount(t *testing.T) {
	price := mustPrice(t, "100", "0", "0", false)

	_, err := ComputeDiscount(&price, decimal.Zero, d("-1"), decimal.Zero, false)
	require.Error(t, err)
	assert.EqualError(t, err, "Discount amount must be a positive value")
}

func TestComputeDiscount_PercentOutOfRange(t *testing.T) {
	price := mustPrice(t, "100", "0", "0", false)

	for _, pct := range []string{"-10", "200", "1.01"} {
		t.Run(pct, func(t *testing.T) {
			_, err := ComputeDiscount(&price, decimal.Zero, decimal.Zero, d(pct), false)
			require.Error(t, err)
			assert.EqualError(t, err, "Discount percent must be a value between 0 and 1")
		})
	}
}

func TestComputeDiscount_ZeroTaxMismatchedPrice(t *testing.T) {
	price := &TaxedPrice{Net: d("100"), Gross: d("120"), Tax: d("20"), Currency: "EUR"}

	_, err := ComputeDiscount(price, decimal.Zero, d("10"), decimal.Zero, true)
	require.ErrorIs(t, err, ErrTaxMismatch)
}

// gross - net == tax must hold after a discount in either direction.
func TestComputeDiscount_TripleConsistency(t *testing.T) {
	price := mustPrice(t, "83.33", "0", "0.2", false)

	for _, fromGross := range []bool{true, false} {
		got, err := ComputeDiscount(&price, d("0.2"), d("7.77"), decimal.Zero, fromGross)
		require.NoError(t, err)
		assert.True(t, got.Gross.Sub(got.Net).Equal(got.Tax))

		got, err = ComputeDiscount(&price, d("0.2"), decimal.Zero, d("0.33"), fromGross)
		require.NoError(t, err)
		assert.True(t, got.Gross.Sub(got.Net).Equal(got.Tax))
	}
}

func TestResolveDiscountSpec_Priority(t *testing.T) {
	tests := []struct {
		name                                       string
		fixedNet, percentNet, fixedGross, pctGross string
		want                                       DiscountKind
	}{
		{name: "all zero resolves to none", fixedNet: "0", percentNet: "0", fixedGross: "0", pctGross: "0", want: DiscountNone},
		{name: "fixed net beats everything", fixedNet: "10", percentNet: "0.5", fixedGross: "10", pctGross: "0.5", want: DiscountFixedNet},
		{name: "percent net beats gross inputs", fixedNet: "0", percentNet: "0.5", fixedGross: "10", pctGross: "0.5", want: DiscountPercentNet},
		{name: "fixed gross beats gross percent", fixedNet: "0", percentNet: "0", fixedGross: "10", pctGross: "0.5", want: DiscountFixedGross},
		{name: "gross percent is last", fixedNet: "0", percentNet: "0", fixedGross: "0", pctGross: "0.5", want: DiscountPercentGross},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ResolveDiscountSpec(d(tt.fixedNet), d(tt.percentNet), d(tt.fixedGross), d(tt.pctGross))
			assert.Equal(t, tt.want, spec.Kind)
		})
	}
}

func TestDiscountSpec_Apply(t *testing.T) {
	price := mustPrice(t, "100", "0", "0.2", false)

	got, err := FixedNet(d("10")).Apply(&price, d("0.2"))
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "108", "18")

	got, err = PercentGross(d("0.1")).Apply(&price, d("0.2"))
	require.NoError(t, err)
	assertAmounts(t, *got, "90", "108", "18")

	got, err = DiscountSpec{}.Apply(&price, d("0.2"))
	require.NoError(t, err)
	assert.True(t, price.Equal(*got))
}
