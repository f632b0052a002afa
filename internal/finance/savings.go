package finance

import "SolarSizer/internal/model"

// AnnualSavings values a simulated year against the tariff: energy no longer
// imported at the energy rate plus monthly peak reductions at the demand rate.
func AnnualSavings(res *model.SimulationResult, a *model.AnalysisAssumptions) float64 {
	energy := (res.AnnualConsumptionKWh - res.GridImportKWh) * a.TariffEnergy
	demand := res.AnnualDemandReductionKW * a.TariffPower
	return energy + demand
}

// AnnualOM is the first-year operations and maintenance cost.
func AnnualOM(b model.FinancialBreakdown, a *model.AnalysisAssumptions) float64 {
	return b.CapexSolar*a.OMSolarPercent + b.CapexBattery*a.OMBatteryPercent
}
