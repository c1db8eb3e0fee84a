// Package money holds the rounding rules used for every ledger amount.
// Amounts are decimals with two fractional digits, rounded half away from zero.
package money

import (
	"github.com/shopspring/decimal"
)

const Places = 2

var Zero = decimal.Zero

// Round rounds d to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ApplyRate returns round(base * rate, 2).
func ApplyRate(base decimal.Decimal, rate float64) decimal.Decimal {
	return Round(base.Mul(decimal.NewFromFloat(rate)))
}

// Split divides gross into a platform commission and the remainder.
// commission + net always equals the cent-rounded gross.
func Split(gross decimal.Decimal, rate float64) (commission, net decimal.Decimal) {
	gross = Round(gross)
	commission = ApplyRate(gross, rate)
	net = Round(gross.Sub(commission))
	return commission, net
}

// FromString parses a decimal amount, e.g. "1000.00".
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
