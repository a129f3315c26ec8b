// Package money converts between the decimal-dollar amounts crossing the API
// boundary and the integer minor units (cents) used everywhere internally.
package money

import (
	"fmt"
	"math"
)

// DollarsToCents converts a decimal dollar amount to integer cents using
// round-half-away-from-zero on amount*100. Non-finite amounts are rejected.
func DollarsToCents(dollars float64) (int64, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, fmt.Errorf("amount is not a finite number")
	}
	cents := math.Round(dollars * 100)
	if cents > math.MaxInt64 || cents < math.MinInt64 {
		return 0, fmt.Errorf("amount out of range")
	}
	return int64(cents), nil
}

// PositiveDollarsToCents converts and additionally requires the result to be
// a positive number of cents. Used by every money-moving entry point.
func PositiveDollarsToCents(dollars float64) (int64, error) {
	cents, err := DollarsToCents(dollars)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return cents, nil
}

// CentsToDollars renders cents as a decimal dollar string, e.g. 2550 -> "25.50".
func CentsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
