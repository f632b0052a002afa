package model

import "math"

// Validate rejects non-finite values, negative costs, ratios outside [0,1]
// and discount rates at or below -100%.
func (a *AnalysisAssumptions) Validate() error {
	signed := []struct {
		name string
		v    float64
	}{
		{"discountRate", a.DiscountRate},
		{"inflationRate", a.InflationRate},
		{"inverterLoadRatio", a.InverterLoadRatio},
		{"temperatureCoefficient", a.TemperatureCoefficient},
	}
	for _, f := range signed {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InvalidAssumptionsError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"tariffEnergy", a.TariffEnergy},
		{"tariffPower", a.TariffPower},
		{"solarCostPerW", a.SolarCostPerW},
		{"batteryCapacityCost", a.BatteryCapacityCost},
		{"batteryPowerCost", a.BatteryPowerCost},
		{"omEscalation", a.OMEscalation},
		{"roofAreaSqFt", a.RoofAreaSqFt},
		{"panelPowerDensityWPerM2", a.PanelPowerDensityWPerM2},
		{"solarYieldKWhPerKWp", a.SolarYieldKWhPerKWp},
		{"orientationFactor", a.OrientationFactor},
		{"bifacialBoost", a.BifacialBoost},
		{"hqSolarRatePerKW", a.HQSolarRatePerKW},
		{"hqBatteryRatePerKWh", a.HQBatteryRatePerKWh},
		{"hqProgramCap", a.HQProgramCap},
		{"gridEmissionFactor", a.GridEmissionFactor},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &InvalidAssumptionsError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
		if f.v < 0 {
			return &InvalidAssumptionsError{Field: f.name, Value: f.v, Reason: "must not be negative"}
		}
	}

	ratios := []struct {
		name string
		v    float64
	}{
		{"taxRate", a.TaxRate},
		{"omSolarPercent", a.OMSolarPercent},
		{"omBatteryPercent", a.OMBatteryPercent},
		{"batteryReplacementCostFactor", a.BatteryReplacementCostFactor},
		{"batteryPriceDeclineRate", a.BatteryPriceDeclineRate},
		{"batteryRoundTripEfficiency", a.BatteryRoundTripEfficiency},
		{"roofUtilizationRatio", a.RoofUtilizationRatio},
		{"degradationRate", a.DegradationRate},
		{"hqSolarCapPercent", a.HQSolarCapPercent},
		{"hqBatteryCapPercent", a.HQBatteryCapPercent},
		{"itcRate", a.ITCRate},
	}
	for _, f := range ratios {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &InvalidAssumptionsError{Field: f.name, Value: f.v, Reason: "must be within [0,1]"}
		}
	}

	if math.IsNaN(a.DiscountRate) || a.DiscountRate <= -1 {
		return &InvalidAssumptionsError{Field: "discountRate", Value: a.DiscountRate, Reason: "must be greater than -100%"}
	}
	if math.IsNaN(a.InflationRate) || a.InflationRate <= -1 {
		return &InvalidAssumptionsError{Field: "inflationRate", Value: a.InflationRate, Reason: "must be greater than -100%"}
	}
	if a.BatteryRoundTripEfficiency == 0 {
		return &InvalidAssumptionsError{Field: "batteryRoundTripEfficiency", Value: 0, Reason: "must be positive"}
	}
	if a.InverterLoadRatio <= 0 || math.IsNaN(a.InverterLoadRatio) {
		return &InvalidAssumptionsError{Field: "inverterLoadRatio", Value: a.InverterLoadRatio, Reason: "must be positive"}
	}
	if a.TemperatureCoefficient > 0 || a.TemperatureCoefficient < -0.05 {
		return &InvalidAssumptionsError{Field: "temperatureCoefficient", Value: a.TemperatureCoefficient, Reason: "must be within [-0.05,0]"}
	}
	if a.BatteryReplacementYear < 0 {
		return &InvalidAssumptionsError{Field: "batteryReplacementYear", Value: float64(a.BatteryReplacementYear), Reason: "must not be negative"}
	}
	sum := 0.0
	for _, f := range a.DepreciationSchedule {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidAssumptionsError{Field: "depreciationSchedule", Value: f, Reason: "entries must be finite and not negative"}
		}
		sum += f
	}
	if sum > 1+1e-9 {
		return &InvalidAssumptionsError{Field: "depreciationSchedule", Value: sum, Reason: "must not deduct more than the basis"}
	}
	return nil
}
