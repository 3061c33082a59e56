package summary

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FlatTaxRate is applied to bill totals in customer and overall summaries,
// independent of the rates recorded on each booking.
var FlatTaxRate = decimal.RequireFromString("0.18")

// taxOn returns round(taxable * rate / 100, 2). Ties round to even.
func taxOn(taxable, rate float64) decimal.Decimal {
	return decimal.NewFromFloat(taxable).
		Mul(decimal.NewFromFloat(rate)).
		Div(hundred).
		RoundBank(2)
}

func sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// Fixed2 formats v with exactly two decimals.
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
