package sizing

import (
	"math"
	"testing"

	"github.com/Iron-Ham/solarsizer/internal/bill"
)

const tolerance = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}

func record(units, rate float64) bill.Record {
	return bill.Record{ReferenceNumber: "ABC-123", UnitsConsumed: units, RatePerUnit: rate}
}

func TestDerive_WorkedExample(t *testing.T) {
	q := Derive(record(600, 30), DefaultParameters())

	if q.RecommendedSystemSize != 5.0 {
		t.Errorf("RecommendedSystemSize = %v, want 5.0", q.RecommendedSystemSize)
	}
	if q.NumberOfPanels != 12 {
		t.Errorf("NumberOfPanels = %d, want 12", q.NumberOfPanels)
	}
	if q.EstimatedSystemCost != 750000 {
		t.Errorf("EstimatedSystemCost = %v, want 750000", q.EstimatedSystemCost)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"PanelWattage", q.PanelWattage, 450},
		{"Equipment", q.CostBreakdown.Equipment, 450000},
		{"Labor", q.CostBreakdown.Labor, 225000},
		{"Permits", q.CostBreakdown.Permits, 75000},
		{"EstimatedDailyProduction", q.EstimatedDailyProduction, 20},
		{"EstimatedMonthlyProduction", q.EstimatedMonthlyProduction, 600},
		{"EstimatedAnnualProduction", q.EstimatedAnnualProduction, 7300},
		{"CoveragePercentage", q.CoveragePercentage, 100},
		{"EstimatedAnnualSavings", q.EstimatedAnnualSavings, 216000},
		{"EstimatedPaybackPeriod", q.EstimatedPaybackPeriod, 750000.0 / 216000.0},
		{"CO2OffsetTonsPerYear", q.CO2OffsetTonsPerYear, 5.11},
		{"TreesEquivalent", q.TreesEquivalent, 84.315},
		{"RoofAreaSqFt", q.RoofAreaSqFt, 210},
		{"Incentives", q.Incentives, 0},
		{"NetSystemCost", q.NetSystemCost, 750000},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if !q.PaybackBounded() {
		t.Error("PaybackBounded() = false, want true")
	}
}

func TestDerive_ZeroConsumption(t *testing.T) {
	for _, units := range []float64{0, -10} {
		q := Derive(record(units, 30), DefaultParameters())

		zeros := map[string]float64{
			"RecommendedSystemSize":      q.RecommendedSystemSize,
			"EstimatedSystemCost":        q.EstimatedSystemCost,
			"EstimatedDailyProduction":   q.EstimatedDailyProduction,
			"EstimatedMonthlyProduction": q.EstimatedMonthlyProduction,
			"EstimatedAnnualProduction":  q.EstimatedAnnualProduction,
			"CoveragePercentage":         q.CoveragePercentage,
			"EstimatedAnnualSavings":     q.EstimatedAnnualSavings,
			"CO2OffsetTonsPerYear":       q.CO2OffsetTonsPerYear,
			"TreesEquivalent":            q.TreesEquivalent,
			"RoofAreaSqFt":               q.RoofAreaSqFt,
			"Breakdown":                  q.CostBreakdown.Total(),
		}
		for name, v := range zeros {
			if v != 0 {
				t.Errorf("units=%v: %s = %v, want 0", units, name, v)
			}
		}
		if q.NumberOfPanels != 0 {
			t.Errorf("units=%v: NumberOfPanels = %d, want 0", units, q.NumberOfPanels)
		}
		if q.PaybackBounded() || q.EstimatedPaybackPeriod != UnboundedPayback {
			t.Errorf("units=%v: payback = %v, want UnboundedPayback", units, q.EstimatedPaybackPeriod)
		}
	}
}

func TestDerive_ZeroRateIsUnboundedPayback(t *testing.T) {
	q := Derive(record(600, 0), DefaultParameters())
	if q.RecommendedSystemSize != 5.0 {
		t.Errorf("RecommendedSystemSize = %v, want 5.0", q.RecommendedSystemSize)
	}
	if q.EstimatedAnnualSavings != 0 {
		t.Errorf("EstimatedAnnualSavings = %v, want 0", q.EstimatedAnnualSavings)
	}
	if q.PaybackBounded() {
		t.Errorf("payback = %v, want unbounded", q.EstimatedPaybackPeriod)
	}
}

var propertyInputs = []struct {
	units, rate float64
}{
	{1, 1}, {7, 12.5}, {33.3, 60}, {100, 25}, {150, 30}, {333.33, 41.7},
	{599.99, 30}, {600, 30}, {601, 30}, {1234.5, 68}, {2000, 209.5},
	{5000, 45}, {98765.4321, 12},
}

func TestDerive_CoverageBounds(t *testing.T) {
	for _, in := range propertyInputs {
		q := Derive(record(in.units, in.rate), DefaultParameters())
		if q.CoveragePercentage < 0 || q.CoveragePercentage > 100 {
			t.Errorf("units=%v: CoveragePercentage = %v, want within [0,100]", in.units, q.CoveragePercentage)
		}
	}
}

func TestDerive_BreakdownSumsToCost(t *testing.T) {
	params := DefaultParameters()
	splits := []CostSplit{
		params.CostSplit,
		{Equipment: 0.5, Labor: 0.35, Permits: 0.15},
		{Equipment: 1, Labor: 0, Permits: 0},
	}
	for _, split := range splits {
		params.CostSplit = split
		for _, in := range propertyInputs {
			q := Derive(record(in.units, in.rate), params)
			if !approx(q.CostBreakdown.Total(), q.EstimatedSystemCost) {
				t.Errorf("split %+v units=%v: breakdown %v != cost %v",
					split, in.units, q.CostBreakdown.Total(), q.EstimatedSystemCost)
			}
		}
	}
}

func TestDerive_Pure(t *testing.T) {
	params := DefaultParameters()
	params.IncentiveRate = 0.1
	for _, in := range propertyInputs {
		a := Derive(record(in.units, in.rate), params)
		b := Derive(record(in.units, in.rate), params)
		if a != b {
			t.Errorf("units=%v: Derive is not deterministic:\n%+v\n%+v", in.units, a, b)
		}
	}
}

func TestDerive_PanelsCoverSize(t *testing.T) {
	params := DefaultParameters()
	for _, in := range propertyInputs {
		q := Derive(record(in.units, in.rate), params)
		capacity := float64(q.NumberOfPanels) * params.PanelWattage / 1000
		if capacity+tolerance < q.RecommendedSystemSize {
			t.Errorf("units=%v: %d panels (%v kW) under-supply %v kW",
				in.units, q.NumberOfPanels, capacity, q.RecommendedSystemSize)
		}
		if q.NumberOfPanels > 0 && capacity-params.PanelWattage/1000 >= q.RecommendedSystemSize {
			t.Errorf("units=%v: %d panels is one more than needed", in.units, q.NumberOfPanels)
		}
	}
}

func TestDerive_ExactPanelMultiple(t *testing.T) {
	// 540 kWh/month is 4.5 kW exactly, i.e. ten 450 W panels with no remainder.
	q := Derive(record(540, 30), DefaultParameters())
	if q.RecommendedSystemSize != 4.5 {
		t.Fatalf("RecommendedSystemSize = %v, want 4.5", q.RecommendedSystemSize)
	}
	if q.NumberOfPanels != 10 {
		t.Errorf("NumberOfPanels = %d, want 10", q.NumberOfPanels)
	}
}

func TestDerive_SizePrecision(t *testing.T) {
	params := DefaultParameters()

	tests := []struct {
		precision int
		want      float64
	}{
		{0, 3},
		{1, 2.8},
		{2, 2.78},
		{3, 2.778},
	}
	for _, tt := range tests {
		params.SizePrecision = tt.precision
		// 333.33/30/4 = 2.77775
		q := Derive(record(333.33, 30), params)
		if q.RecommendedSystemSize != tt.want {
			t.Errorf("precision %d: size = %v, want %v", tt.precision, q.RecommendedSystemSize, tt.want)
		}
	}
}

func TestDerive_Incentives(t *testing.T) {
	params := DefaultParameters()
	params.IncentiveRate = 0.25

	q := Derive(record(600, 30), params)
	if !approx(q.Incentives, 187500) {
		t.Errorf("Incentives = %v, want 187500", q.Incentives)
	}
	if !approx(q.NetSystemCost, 562500) {
		t.Errorf("NetSystemCost = %v, want 562500", q.NetSystemCost)
	}
	if q.EstimatedSystemCost != 750000 {
		t.Errorf("EstimatedSystemCost = %v, incentives must not change gross cost", q.EstimatedSystemCost)
	}
}

func TestDerive_DegenerateParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"zero sun hours", func(p *Parameters) { p.PeakSunHours = 0 }},
		{"zero days per month", func(p *Parameters) { p.DaysPerMonth = 0 }},
		{"NaN derate", func(p *Parameters) { p.DerateFactor = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParameters()
			tt.mutate(&params)
			q := Derive(record(600, 30), params)
			if q.RecommendedSystemSize != 0 || q.PaybackBounded() {
				t.Errorf("expected zero quote, got %+v", q)
			}
		})
	}

	params := DefaultParameters()
	params.PanelWattage = 0
	q := Derive(record(600, 30), params)
	if q.NumberOfPanels != 0 {
		t.Errorf("NumberOfPanels = %d with zero wattage, want 0", q.NumberOfPanels)
	}
}
