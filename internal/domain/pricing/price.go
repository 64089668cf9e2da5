package pricing

import (
	"github.com/shopspring/decimal"
)

// ComputePrice resolves a consistent taxed price from a net or gross amount
// and a raw tax rate (fraction or percentage, see NormalizeTax).
//
// When both net and gross are supplied and differ, keepGross decides which
// side is authoritative: with keepGross=true the net input is discarded and
// recomputed from gross, with keepGross=false the gross input is discarded
// and recomputed from net. The flat-tax relation gross = net * (1 + tax)
// resolves the missing side, rounding money to 2 decimal places.
//
// An empty currency defaults to DefaultCurrency.
func ComputePrice(net, gross, taxRaw decimal.Decimal, currency string, keepGross bool) (TaxedPrice, error) {
	tax, err := NormalizeTax(taxRaw)
	if err != nil {
		return TaxedPrice{}, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	if !net.Equal(gross) {
		if keepGross {
			net = gross
		} else {
			gross = net
		}
	}

	rate := one.Add(tax)
	if keepGross {
		gross = gross.Round(moneyPlaces)
		net = gross.Div(rate).Round(moneyPlaces)
	} else {
		net = net.Round(moneyPlaces)
		gross = net.Mul(rate).Round(moneyPlaces)
	}

	return TaxedPrice{
		Net:      net,
		Gross:    gross,
		Tax:      gross.Sub(net),
		Currency: currency,
	}, nil
}
