package sizing

import (
	"fmt"

	"SolarSizer/internal/finance"
	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

// PrimaryHorizon is the horizon scenarios are ranked on.
const PrimaryHorizon = 25

// Evaluation is one configuration pushed through simulation, breakdown and cashflows.
type Evaluation struct {
	Scenario   model.Scenario
	Simulation *model.SimulationResult
	Projection *finance.Projection
}

// Evaluate runs the full pipeline for one system size. The projection covers
// the longest horizon so shorter horizons can be read from it.
func Evaluate(p *model.LoadProfile, size simulation.SystemSize, a *model.AnalysisAssumptions) (*Evaluation, error) {
	sim, err := simulation.Simulate(p, size, a)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	b, err := finance.ComputeBreakdown(size.PVSizeKW, size.BattEnergyKWh, size.BattPowerKW, a)
	if err != nil {
		return nil, fmt.Errorf("breakdown: %w", err)
	}
	incentives := finance.IncentiveTiming(b)
	savings := finance.AnnualSavings(sim, a)

	proj, err := finance.BuildCashflows(finance.CashflowParams{
		AnnualSavingsYear1: savings,
		CapexNet:           b.CapexNet,
		Incentives:         incentives,
		OMAnnualYear1:      finance.AnnualOM(b, a),
		OMEscalation:       a.OMEscalation,
		BatteryCapex:       b.CapexBattery,
		Replacement: finance.BatteryReplacement{
			Year:             a.BatteryReplacementYear,
			CostFactor:       a.BatteryReplacementCostFactor,
			PriceDeclineRate: a.BatteryPriceDeclineRate,
		},
		InflationRate:       a.InflationRate,
		DegradationRate:     a.DegradationRate,
		AnnualProductionKWh: sim.TotalProductionKWh,
		HorizonYears:        finance.MaxHorizonYears,
	})
	if err != nil {
		return nil, fmt.Errorf("cashflows: %w", err)
	}
	m, err := proj.Metrics(a.DiscountRate, PrimaryHorizon)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	return &Evaluation{
		Scenario: model.Scenario{
			PVSizeKW:               size.PVSizeKW,
			BattEnergyKWh:          size.BattEnergyKWh,
			BattPowerKW:            size.BattPowerKW,
			NPV25:                  m.NPV,
			IRR25:                  m.IRR,
			SelfSufficiencyPercent: sim.SelfSufficiencyPercent(),
			SimplePaybackYears:     proj.Truncate(PrimaryHorizon).Payback(),
			CapexNet:               b.CapexNet,
			CapexGross:             b.CapexGross,
			AnnualSavings:          savings,
			AnnualProductionKWh:    sim.TotalProductionKWh,
			SelfConsumptionKWh:     sim.SelfConsumptionKWh,
			Breakdown:              b,
			Incentives:             incentives,
		},
		Simulation: sim,
		Projection: proj,
	}, nil
}
