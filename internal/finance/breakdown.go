package finance

import (
	"math"

	"SolarSizer/internal/calculator"
	"SolarSizer/internal/model"
)

// ComputeBreakdown prices a system and applies the incentive rules: utility
// rebates capped per technology and by the program, the federal ITC on the
// post-rebate basis, and the depreciation tax shield on what remains.
// The result is not clamped; a negative net capex is reported as is.
func ComputeBreakdown(pvKW, battKWh, battKW float64, a *model.AnalysisAssumptions) (model.FinancialBreakdown, error) {
	sizes := []struct {
		name string
		v    float64
	}{
		{"pvSizeKW", pvKW},
		{"battEnergyKWh", battKWh},
		{"battPowerKW", battKW},
	}
	for _, s := range sizes {
		if s.v < 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return model.FinancialBreakdown{}, &model.InvalidAssumptionsError{Field: s.name, Value: s.v, Reason: "must be a non-negative size"}
		}
	}
	if err := a.Validate(); err != nil {
		return model.FinancialBreakdown{}, err
	}

	b := model.FinancialBreakdown{
		CapexSolar:   pvKW * 1000 * a.SolarCostPerW,
		CapexBattery: battKWh*a.BatteryCapacityCost + battKW*a.BatteryPowerCost,
	}
	b.CapexGross = b.CapexSolar + b.CapexBattery

	remaining := a.HQProgramCap
	b.ActualHQSolar = rebate(a.HQSolarRatePerKW*pvKW, a.HQSolarCapPercent*b.CapexSolar, remaining)
	remaining -= b.ActualHQSolar
	b.ActualHQBattery = rebate(a.HQBatteryRatePerKWh*battKWh, a.HQBatteryCapPercent*b.CapexBattery, remaining)

	itcBasis := b.CapexGross - b.ActualHQSolar - b.ActualHQBattery
	b.ITCAmount = a.ITCRate * itcBasis
	b.TaxShield = taxShield(itcBasis-b.ITCAmount, a)

	b.CapexNet = b.CapexGross - b.ActualHQSolar - b.ActualHQBattery - b.ITCAmount - b.TaxShield
	return b, nil
}

func rebate(byRate, byShare, remaining float64) float64 {
	r := math.Min(byRate, byShare)
	r = math.Min(r, remaining)
	if r < 0 {
		return 0
	}
	return r
}

// taxShield is the present value of the depreciation deductions at the tax rate.
// Deductions for schedule entry i are taken at the end of year i+1.
func taxShield(basis float64, a *model.AnalysisAssumptions) float64 {
	if basis <= 0 {
		return 0
	}
	pv := 0.0
	for i, share := range a.DepreciationSchedule {
		pv += calculator.PresentValue(basis*share*a.TaxRate, a.DiscountRate, i+1)
	}
	return pv
}

// IncentiveTiming splits incentives by disbursement year. The utility solar
// rebate is paid at commissioning; the battery rebate, the ITC and the first
// half of the tax shield arrive in year 1; the rest of the tax shield in year 2.
func IncentiveTiming(b model.FinancialBreakdown) model.IncentiveSchedule {
	return model.IncentiveSchedule{
		Year0: b.ActualHQSolar,
		Year1: b.ActualHQBattery + b.ITCAmount + b.TaxShield/2,
		Year2: b.TaxShield / 2,
	}
}
