package sizing

import (
	"math"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

// splitTolerance is how far the cost split weights may drift from 1.
const splitTolerance = 1e-9

// CostSplit divides the system cost into its parts. Weights must sum to 1.
type CostSplit struct {
	Equipment float64 `json:"equipment" yaml:"equipment" mapstructure:"equipment"`
	Labor     float64 `json:"labor" yaml:"labor" mapstructure:"labor"`
	Permits   float64 `json:"permits" yaml:"permits" mapstructure:"permits"`
}

// Parameters are the named constants the engine derives with.
type Parameters struct {
	// PeakSunHours is the average number of full-sun hours per day.
	PeakSunHours float64 `json:"peakSunHours" yaml:"peak_sun_hours"`
	// DerateFactor accounts for inverter, wiring and soiling losses.
	DerateFactor float64 `json:"derateFactor" yaml:"derate_factor"`
	// PanelWattage is the rated output of one panel in watts.
	PanelWattage float64 `json:"panelWattage" yaml:"panel_wattage"`
	// CostPerKW is the installed cost per kilowatt, in bill currency.
	CostPerKW float64 `json:"costPerKW" yaml:"cost_per_kw"`
	// CO2TonsPerKWh is the grid emission factor offset per solar kWh.
	CO2TonsPerKWh float64 `json:"co2TonsPerKWh" yaml:"co2_tons_per_kwh"`
	TreesPerTon   float64 `json:"treesPerTon" yaml:"trees_per_ton"`
	PanelAreaSqFt float64 `json:"panelAreaSqFt" yaml:"panel_area_sqft"`
	// IncentiveRate is the fraction of system cost returned as rebates.
	IncentiveRate float64 `json:"incentiveRate" yaml:"incentive_rate"`
	// SizePrecision is the number of decimal places kept on the system size.
	SizePrecision int       `json:"sizePrecision" yaml:"size_precision"`
	DaysPerMonth  float64   `json:"daysPerMonth" yaml:"days_per_month"`
	DaysPerYear   float64   `json:"daysPerYear" yaml:"days_per_year"`
	MonthsPerYear float64   `json:"monthsPerYear" yaml:"months_per_year"`
	CostSplit     CostSplit `json:"costSplit" yaml:"cost_split"`
}

// DefaultParameters returns the parameter set used when nothing is
// configured.
func DefaultParameters() Parameters {
	return Parameters{
		PeakSunHours:  5,
		DerateFactor:  0.8,
		PanelWattage:  450,
		CostPerKW:     150000,
		CO2TonsPerKWh: 0.0007,
		TreesPerTon:   16.5,
		PanelAreaSqFt: 17.5,
		IncentiveRate: 0,
		SizePrecision: 2,
		DaysPerMonth:  30,
		DaysPerYear:   365,
		MonthsPerYear: 12,
		CostSplit: CostSplit{
			Equipment: 0.6,
			Labor:     0.3,
			Permits:   0.1,
		},
	}
}

// Validate returns the first problem found, as an *errors.ValidationError.
func (p Parameters) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"peak_sun_hours", p.PeakSunHours},
		{"derate_factor", p.DerateFactor},
		{"panel_wattage", p.PanelWattage},
		{"days_per_month", p.DaysPerMonth},
		{"days_per_year", p.DaysPerYear},
		{"months_per_year", p.MonthsPerYear},
	}
	for _, f := range positive {
		if !finite(f.value) || f.value <= 0 {
			return errors.NewValidationError("must be positive").WithField("sizing." + f.field).WithValue(f.value)
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"cost_per_kw", p.CostPerKW},
		{"co2_tons_per_kwh", p.CO2TonsPerKWh},
		{"trees_per_ton", p.TreesPerTon},
		{"panel_area_sqft", p.PanelAreaSqFt},
		{"incentive_rate", p.IncentiveRate},
		{"cost_split.equipment", p.CostSplit.Equipment},
		{"cost_split.labor", p.CostSplit.Labor},
		{"cost_split.permits", p.CostSplit.Permits},
	}
	for _, f := range nonNegative {
		if !finite(f.value) || f.value < 0 {
			return errors.NewValidationError("must not be negative").WithField("sizing." + f.field).WithValue(f.value)
		}
	}

	if p.DerateFactor > 1 {
		return errors.NewValidationError("must not exceed 1").WithField("sizing.derate_factor").WithValue(p.DerateFactor)
	}
	if p.IncentiveRate > 1 {
		return errors.NewValidationError("must not exceed 1").WithField("sizing.incentive_rate").WithValue(p.IncentiveRate)
	}
	if p.SizePrecision < 0 || p.SizePrecision > 6 {
		return errors.NewValidationError("must be between 0 and 6").WithField("sizing.size_precision").WithValue(p.SizePrecision)
	}

	sum := p.CostSplit.Equipment + p.CostSplit.Labor + p.CostSplit.Permits
	if math.Abs(sum-1) > splitTolerance {
		return errors.NewValidationError("weights must sum to 1").WithField("sizing.cost_split").WithValue(sum)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
