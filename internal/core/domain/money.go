package domain

import "github.com/shopspring/decimal"

// Amounts are stored as NUMERIC(14,2).
const (
	amountScale      = 2
	amountPrecision  = 14
	maxAmountIntDigs = amountPrecision - amountScale
)

// MaxAmount is the largest value an amount column holds.
var MaxAmount = decimal.New(99999999999999, -amountScale)

// AmountOutOfRange reports whether d cannot fit an amount column. It reads
// only the coefficient's digit count and the exponent, so inputs such as
// 1e50000000 are rejected without being expanded.
func AmountOutOfRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return false
	}
	mag := int64(d.NumDigits()) + int64(d.Exponent())
	if mag > maxAmountIntDigs {
		return true
	}
	// |d| < 10^mag <= 0.01, so a digit below the scale is non-zero.
	return mag <= -amountScale
}

// FitAmount checks that d is a non-negative value storable without rounding
// and returns it. Zero comes back as decimal.Zero whatever its exponent.
func FitAmount(field string, d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if d.IsNegative() {
		return d, fieldErr(field, "must not be negative")
	}
	if int64(d.NumDigits())+int64(d.Exponent()) > maxAmountIntDigs {
		return d, fieldErr(field, "must not exceed "+MaxAmount.StringFixed(amountScale))
	}
	if AmountOutOfRange(d) || !d.Equal(d.Round(amountScale)) {
		return d, fieldErr(field, "must have at most 2 decimal places")
	}
	return d, nil
}
