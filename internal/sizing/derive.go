package sizing

import (
	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/solarsizer/internal/bill"
)

var (
	hundred      = decimal.NewFromInt(100)
	wattsPerKW   = decimal.NewFromInt(1000)
	unboundedDec = decimal.NewFromFloat(UnboundedPayback)
)

// Derive sizes a system for b under p.
func Derive(b bill.Record, p Parameters) Quote {
	q := Quote{
		PanelWattage:           p.PanelWattage,
		EstimatedPaybackPeriod: UnboundedPayback,
	}

	units := dec(b.UnitsConsumed)
	sunHours := dec(p.PeakSunHours)
	derate := dec(p.DerateFactor)
	yieldPerKW := sunHours.Mul(derate)
	daysPerMonth := dec(p.DaysPerMonth)

	if !units.IsPositive() || !yieldPerKW.IsPositive() || !daysPerMonth.IsPositive() {
		return q
	}

	avgDaily := units.Div(daysPerMonth)
	size := avgDaily.Div(yieldPerKW).Round(int32(p.SizePrecision))
	if !size.IsPositive() {
		return q
	}

	panels := decimal.Zero
	if wattage := dec(p.PanelWattage); wattage.IsPositive() {
		panels = size.Mul(wattsPerKW).Div(wattage).Ceil()
	}

	cost := size.Mul(dec(p.CostPerKW))
	equipment := cost.Mul(dec(p.CostSplit.Equipment))
	labor := cost.Mul(dec(p.CostSplit.Labor))
	permits := cost.Sub(equipment).Sub(labor)
	incentives := cost.Mul(dec(p.IncentiveRate))

	daily := size.Mul(yieldPerKW)
	monthly := daily.Mul(daysPerMonth)
	annual := daily.Mul(dec(p.DaysPerYear))

	coverage := decimal.Min(decimal.Max(monthly.Div(units).Mul(hundred), decimal.Zero), hundred)
	savings := coverage.Div(hundred).Mul(units).Mul(dec(p.MonthsPerYear)).Mul(dec(b.RatePerUnit))

	payback := unboundedDec
	if savings.IsPositive() {
		payback = cost.Div(savings)
	}

	co2 := annual.Mul(dec(p.CO2TonsPerKWh))

	q.RecommendedSystemSize = size.InexactFloat64()
	q.NumberOfPanels = int(panels.IntPart())
	q.EstimatedSystemCost = cost.InexactFloat64()
	q.CostBreakdown = CostBreakdown{
		Equipment: equipment.InexactFloat64(),
		Labor:     labor.InexactFloat64(),
		Permits:   permits.InexactFloat64(),
	}
	q.Incentives = incentives.InexactFloat64()
	q.NetSystemCost = cost.Sub(incentives).InexactFloat64()
	q.EstimatedDailyProduction = daily.InexactFloat64()
	q.EstimatedMonthlyProduction = monthly.InexactFloat64()
	q.EstimatedAnnualProduction = annual.InexactFloat64()
	q.CoveragePercentage = coverage.InexactFloat64()
	q.EstimatedAnnualSavings = savings.InexactFloat64()
	q.EstimatedPaybackPeriod = payback.InexactFloat64()
	q.CO2OffsetTonsPerYear = co2.InexactFloat64()
	q.TreesEquivalent = co2.Mul(dec(p.TreesPerTon)).InexactFloat64()
	q.RoofAreaSqFt = panels.Mul(dec(p.PanelAreaSqFt)).InexactFloat64()
	return q
}

// dec converts a float parameter. Non-finite values become zero so the
// positivity guards above treat them as unusable.
func dec(f float64) decimal.Decimal {
	if !finite(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
