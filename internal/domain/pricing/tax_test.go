package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTax(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "zero stays zero", raw: "0", want: "0"},
		{name: "percentage is divided by 100", raw: "20", want: "0.2"},
		{name: "fraction kept as-is", raw: "0.2", want: "0.2"},
		{name: "fraction with more digits", raw: "0.22", want: "0.22"},
		{name: "fraction quantized to 4 places", raw: "0.222222", want: "0.2222"},
		{name: "exactly one hundred is 100 percent", raw: "100", want: "1"},
		{name: "exactly one is a fraction, not 1 percent", raw: "1", want: "1"},
		{name: "small percentage", raw: "2.1", want: "0.021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTax(decimal.RequireFromString(tt.raw))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestNormalizeTax_OutOfRange(t *testing.T) {
	for _, raw := range []string{"-0.2", "-0.01", "200", "100.0001"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NormalizeTax(decimal.RequireFromString(raw))
			require.Error(t, err)
			assert.EqualError(t, err, "Tax must be a value between 0 and 1")
		})
	}
}
