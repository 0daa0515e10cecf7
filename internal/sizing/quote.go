package sizing

// UnboundedPayback marks a quote whose savings never repay the system.
const UnboundedPayback = -1.0

// CostBreakdown splits EstimatedSystemCost into its parts.
type CostBreakdown struct {
	Equipment float64 `json:"equipment"`
	Labor     float64 `json:"labor"`
	Permits   float64 `json:"permits"`
}

// Total returns the sum of the parts.
func (b CostBreakdown) Total() float64 {
	return b.Equipment + b.Labor + b.Permits
}

// Quote is the derived sizing for one bill. Sizes are in kW, production in
// kWh and money in the bill's currency.
type Quote struct {
	RecommendedSystemSize      float64       `json:"recommendedSystemSize"`
	NumberOfPanels             int           `json:"numberOfPanels"`
	PanelWattage               float64       `json:"panelWattage"`
	EstimatedSystemCost        float64       `json:"estimatedSystemCost"`
	CostBreakdown              CostBreakdown `json:"costBreakdown"`
	Incentives                 float64       `json:"incentives"`
	NetSystemCost              float64       `json:"netSystemCost"`
	EstimatedDailyProduction   float64       `json:"estimatedDailyProduction"`
	EstimatedMonthlyProduction float64       `json:"estimatedMonthlyProduction"`
	EstimatedAnnualProduction  float64       `json:"estimatedAnnualProduction"`
	CoveragePercentage         float64       `json:"coveragePercentage"`
	EstimatedAnnualSavings     float64       `json:"estimatedAnnualSavings"`
	EstimatedPaybackPeriod     float64       `json:"estimatedPaybackPeriod"`
	CO2OffsetTonsPerYear       float64       `json:"co2OffsetTonsPerYear"`
	TreesEquivalent            float64       `json:"treesEquivalent"`
	RoofAreaSqFt               float64       `json:"roofAreaSqFt"`
}

// PaybackBounded reports whether EstimatedPaybackPeriod is a real number of
// years rather than UnboundedPayback.
func (q Quote) PaybackBounded() bool {
	return q.EstimatedPaybackPeriod >= 0
}
