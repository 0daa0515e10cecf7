package sizing

import (
	"math"
	"testing"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

func TestDefaultParameters_Valid(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Fatalf("DefaultParameters().Validate() = %v", err)
	}
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
		field  string
	}{
		{"zero sun hours", func(p *Parameters) { p.PeakSunHours = 0 }, "sizing.peak_sun_hours"},
		{"negative derate", func(p *Parameters) { p.DerateFactor = -0.1 }, "sizing.derate_factor"},
		{"derate above one", func(p *Parameters) { p.DerateFactor = 1.2 }, "sizing.derate_factor"},
		{"zero wattage", func(p *Parameters) { p.PanelWattage = 0 }, "sizing.panel_wattage"},
		{"infinite days", func(p *Parameters) { p.DaysPerYear = math.Inf(1) }, "sizing.days_per_year"},
		{"negative cost", func(p *Parameters) { p.CostPerKW = -1 }, "sizing.cost_per_kw"},
		{"incentive above one", func(p *Parameters) { p.IncentiveRate = 1.5 }, "sizing.incentive_rate"},
		{"precision too high", func(p *Parameters) { p.SizePrecision = 9 }, "sizing.size_precision"},
		{"split does not sum", func(p *Parameters) { p.CostSplit.Permits = 0.2 }, "sizing.cost_split"},
		{"negative split", func(p *Parameters) {
			p.CostSplit = CostSplit{Equipment: 1.1, Labor: -0.1, Permits: 0}
		}, "sizing.cost_split.labor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)

			err := p.Validate()
			var valErr *errors.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.field)
			}
		})
	}
}
