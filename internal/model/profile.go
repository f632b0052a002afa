package model

// HoursPerYear is the length of a representative non-leap year.
const HoursPerYear = 8760

// LoadProfile is an hourly consumption series starting Jan 1 00:00.
type LoadProfile struct {
	HourlyKWh []float64 `json:"hourlyKWh" yaml:"hourly_kwh"`
	// InterpolatedMonths lists months (1-12) filled upstream because meter data was missing.
	InterpolatedMonths []int `json:"interpolatedMonths,omitempty" yaml:"interpolated_months,omitempty"`
}

// HourlyProfileEntry is one simulated hour.
type HourlyProfileEntry struct {
	Hour        int     `json:"hour"`
	Month       int     `json:"month"`
	Consumption float64 `json:"consumption"`
	Production  float64 `json:"production"`
	GridImport  float64 `json:"gridImport"`
	Export      float64 `json:"export"`
	BatterySoC  float64 `json:"batterySoc"`
	PeakBefore  float64 `json:"peakBefore"`
	PeakAfter   float64 `json:"peakAfter"`
}

// SimulationResult bundles the hourly series and its annual aggregates.
type SimulationResult struct {
	Hourly []HourlyProfileEntry `json:"hourly"`

	AnnualConsumptionKWh    float64 `json:"annualConsumptionKWh"`
	TotalProductionKWh      float64 `json:"totalProductionKWh"`
	SelfConsumptionKWh      float64 `json:"selfConsumptionKWh"`
	TotalExportedKWh        float64 `json:"totalExportedKWh"`
	GridImportKWh           float64 `json:"gridImportKWh"`
	PeakDemandKW            float64 `json:"peakDemandKW"`
	AnnualDemandReductionKW float64 `json:"annualDemandReductionKW"` // sum of monthly peak reductions

	MonthlyPeakBefore [12]float64 `json:"monthlyPeakBefore"`
	MonthlyPeakAfter  [12]float64 `json:"monthlyPeakAfter"`

	// AnnualizationFactor scaled the totals above from the profile's length to
	// one year; 1 for an 8760-hour profile.
	AnnualizationFactor float64 `json:"annualizationFactor"`
}

// SelfSufficiencyPercent is the share of consumption not drawn from the grid.
func (r *SimulationResult) SelfSufficiencyPercent() float64 {
	if r.AnnualConsumptionKWh <= 0 {
		return 0
	}
	covered := r.AnnualConsumptionKWh - r.GridImportKWh
	if covered < 0 {
		covered = 0
	}
	return covered / r.AnnualConsumptionKWh * 100
}
