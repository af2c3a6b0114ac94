package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// LedgerScale is the scale used for amounts posted to the ledger
	LedgerScale int32 = 2
	// PlatformScale is the scale used for platform-internal payout amounts
	PlatformScale int32 = 4
)

// Round rounds v half-up at the given number of decimal places.
// Non-finite inputs round to 0.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Round2 rounds to 2 decimal places (ledger postings)
func Round2(v float64) float64 {
	return Round(v, LedgerScale)
}

// Round4 rounds to 4 decimal places (platform payout amounts)
func Round4(v float64) float64 {
	return Round(v, PlatformScale)
}

// Pct applies a percentage to a base amount and rounds immediately,
// so repeated settlement steps never accumulate unrounded values.
func Pct(base, pct float64, places int32) float64 {
	if math.IsNaN(base) || math.IsInf(base, 0) || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(places).
		Float64()
	return f
}
