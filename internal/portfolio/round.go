package portfolio

import "math"

// Rounding policy, kept bit-for-bit compatible with the exporting sheet:
// TRY prices 2 decimals, USD prices 4, percentages 1-2, money amounts 0,
// ratios (beta/sharpe/sortino/correlation) 3.

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}

// roundPctPtr scales a fractional value to percent before rounding.
func roundPctPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v*100, places)
	return &r
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
