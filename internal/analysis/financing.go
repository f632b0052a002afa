package analysis

import (
	"SolarSizer/internal/financing"
	"SolarSizer/internal/model"
)

// CompareFinancing re-expresses a run's recommended system under each
// acquisition method. Inflation and degradation left nil take the run's own;
// an explicit zero is kept.
func CompareFinancing(run *model.SimulationRun, o financing.Options) (*model.FinancingComparison, error) {
	if o.InflationRate == nil {
		inflation := run.Assumptions.InflationRate
		o.InflationRate = &inflation
	}
	if o.DegradationRate == nil {
		degradation := run.Assumptions.DegradationRate
		o.DegradationRate = &degradation
	}
	return financing.Compare(model.FinancingInput{
		CapexGross:         run.Breakdown.CapexGross,
		CapexNet:           run.Breakdown.CapexNet,
		Incentives:         run.Incentives,
		AnnualSavingsYear1: run.AnnualSavings,
	}, o)
}
