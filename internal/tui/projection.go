package tui

import (
	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/solarsizer/internal/sizing"
)

// ProjectSavings returns cumulative net savings for years 0 through years.
// Year 0 is the day of installation, when the net system cost is still
// outstanding. Savings accrue linearly at the quote's annual rate.
func ProjectSavings(q sizing.Quote, years int) []float64 {
	if years < 0 {
		years = 0
	}
	cost := decimal.NewFromFloat(q.NetSystemCost)
	annual := decimal.NewFromFloat(q.EstimatedAnnualSavings)

	points := make([]float64, years+1)
	for y := 0; y <= years; y++ {
		points[y] = annual.Mul(decimal.NewFromInt(int64(y))).Sub(cost).Round(2).InexactFloat64()
	}
	return points
}

// BreakEvenYear returns the first year whose cumulative savings are no
// longer negative, or -1 when that never happens within the projection.
func BreakEvenYear(points []float64) int {
	for y, v := range points {
		if v >= 0 {
			return y
		}
	}
	return -1
}
