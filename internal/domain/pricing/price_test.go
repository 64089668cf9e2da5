package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrice(t *testing.T, net, gross, tax string, keepGross bool) TaxedPrice {
	t.Helper()
	p, err := ComputePrice(
		decimal.RequireFromString(net),
		decimal.RequireFromString(gross),
		decimal.RequireFromString(tax),
		"", keepGross,
	)
	require.NoError(t, err)
	return p
}

func assertAmounts(t *testing.T, p TaxedPrice, net, gross, tax string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(net).Equal(p.Net), "net: want %s, got %s", net, p.Net)
	assert.True(t, decimal.RequireFromString(gross).Equal(p.Gross), "gross: want %s, got %s", gross, p.Gross)
	assert.True(t, decimal.RequireFromString(tax).Equal(p.Tax), "tax: want %s, got %s", tax, p.Tax)
}

func TestComputePrice_FromNetNoTax(t *testing.T) {
	p := mustPrice(t, "100", "0", "0", false)
	assertAmounts(t, p, "100", "100", "0")
	assert.Equal(t, "EUR", p.Currency)
}

func TestComputePrice_FromGrossNoTax(t *testing.T) {
	p := mustPrice(t, "0", "100", "0", true)
	assertAmounts(t, p, "100", "100", "0")
}

func TestComputePrice_FromNet(t *testing.T) {
	tests := []struct {
		net, tax          string
		wantGross, wantTax string
	}{
		{net: "0.97", tax: "0.021", wantGross: "0.99", wantTax: "0.02"},
		{net: "83.33", tax: "0.2", wantGross: "100", wantTax: "16.67"},
		{net: "8361.20", tax: "0.196", wantGross: "10000", wantTax: "1638.80"},
	}

	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			p := mustPrice(t, tt.net, "0", tt.tax, false)
			assertAmounts(t, p, tt.net, tt.wantGross, tt.wantTax)
		})
	}
}

func TestComputePrice_FromGross(t *testing.T) {
	tests := []struct {
		gross, tax       string
		wantNet, wantTax string
	}{
		{gross: "0.99", tax: "0.021", wantNet: "0.97", wantTax: "0.02"},
		{gross: "100", tax: "0.2", wantNet: "83.33", wantTax: "16.67"},
		{gross: "10000", tax: "0.196", wantNet: "8361.20", wantTax: "1638.80"},
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			p := mustPrice(t, "0", tt.gross, tt.tax, true)
			assertAmounts(t, p, tt.wantNet, tt.gross, tt.wantTax)
		})
	}
}

// When both sides are supplied and differ, the kept side is authoritative
// and the other is recomputed.
func TestComputePrice_ConflictingInputs(t *testing.T) {
	p := mustPrice(t, "50", "100", "0.2", true)
	assertAmounts(t, p, "83.33", "100", "16.67")

	p = mustPrice(t, "50", "100", "0.2", false)
	assertAmounts(t, p, "50", "60", "10")
}

func TestComputePrice_PercentageTaxInput(t *testing.T) {
	p := mustPrice(t, "0", "100", "20", true)
	assertAmounts(t, p, "83.33", "100", "16.67")
}

func TestComputePrice_CustomCurrency(t *testing.T) {
	p, err := ComputePrice(decimal.RequireFromString("100"), decimal.Zero,
		decimal.Zero, "USD", false)
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)
}

func TestComputePrice_InvalidTax(t *testing.T) {
	_, err := ComputePrice(decimal.RequireFromString("100"), decimal.Zero,
		decimal.RequireFromString("200"), "", false)
	require.ErrorIs(t, err, ErrTaxRange)
}

// gross - net == tax must hold for every computed price.
func TestComputePrice_TripleConsistency(t *testing.T) {
	nets := []string{"0.01", "0.97", "19.99", "83.33", "100", "1234.56", "8361.20"}
	taxes := []string{"0", "0.021", "0.055", "0.1", "0.196", "0.2", "1"}

	for _, net := range nets {
		for _, tax := range taxes {
			p := mustPrice(t, net, "0", tax, false)
			assert.True(t, p.Gross.Sub(p.Net).Equal(p.Tax),
				"net=%s tax=%s: %s - %s != %s", net, tax, p.Gross, p.Net, p.Tax)
		}
	}
}

// Feeding the computed gross back with keep_gross=true must reproduce the
// original net within one cent.
func TestComputePrice_RoundTrip(t *testing.T) {
	tolerance := decimal.RequireFromString("0.01")
	nets := []string{"0.97", "19.99", "83.33", "100", "1234.56"}
	taxes := []string{"0", "0.021", "0.1", "0.196", "0.2"}

	for _, net := range nets {
		for _, tax := range taxes {
			forward := mustPrice(t, net, "0", tax, false)
			back := mustPrice(t, "0", forward.Gross.String(), tax, true)

			diff := back.Net.Sub(decimal.RequireFromString(net)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"net=%s tax=%s: round trip drifted by %s", net, tax, diff)
		}
	}
}
