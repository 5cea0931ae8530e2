package utils

import (
	"github.com/shopspring/decimal"
)

// Round2 applies the single rounding rule used at the presentation boundary:
// half-up to two fractional digits.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2Float rounds half-up to two places and widens to float64 for JSON
// emission. Monetary values must stay decimal until they pass through here.
func Round2Float(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// SafeDiv returns a/b, or zero when b is zero
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Percent returns 100*a/b, or zero when b is zero
func Percent(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Mul(decimal.NewFromInt(100)).Div(b)
}
