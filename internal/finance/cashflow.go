package finance

import (
	"errors"
	"fmt"
	"math"

	"SolarSizer/internal/calculator"
	"SolarSizer/internal/model"
)

// MaxHorizonYears is the longest horizon a projection is built for.
const MaxHorizonYears = 30

// Horizons are the analysis horizons reported for every run.
var Horizons = []int{10, 20, 25, 30}

// BatteryReplacement describes the single mid-life battery replacement.
type BatteryReplacement struct {
	Year             int
	CostFactor       float64
	PriceDeclineRate float64
}

// CashflowParams is everything the cashflow model depends on.
type CashflowParams struct {
	AnnualSavingsYear1  float64
	CapexNet            float64
	Incentives          model.IncentiveSchedule
	OMAnnualYear1       float64
	OMEscalation        float64
	BatteryCapex        float64
	Replacement         BatteryReplacement
	InflationRate       float64
	DegradationRate     float64
	AnnualProductionKWh float64
	HorizonYears        int
}

// Projection is a year-indexed cashflow series with the cost and energy
// series LCOE is computed from.
type Projection struct {
	Cashflows []model.CashflowEntry
	Costs     []float64 // capex net at year 0, O&M and replacement after
	Energy    []float64 // kWh produced per year
}

// BuildCashflows projects the project cashflow for years 0..HorizonYears.
//
// Year 0 carries the net capex plus every incentive not yet received; the
// year 1 and year 2 tranches flow back in those years, so the tranches sum to
// the same net outlay. Savings escalate with the tariff and decline with
// panel degradation; O&M escalates on its own rate.
func BuildCashflows(p CashflowParams) (*Projection, error) {
	if p.HorizonYears < 1 || p.HorizonYears > 100 {
		return nil, fmt.Errorf("horizon must be between 1 and 100 years, got %d", p.HorizonYears)
	}
	if p.InflationRate <= -1 || p.OMEscalation <= -1 {
		return nil, errors.New("escalation rates must be greater than -100%")
	}

	n := p.HorizonYears
	proj := &Projection{
		Cashflows: make([]model.CashflowEntry, n+1),
		Costs:     make([]float64, n+1),
		Energy:    make([]float64, n+1),
	}

	deferred := p.Incentives.Year1
	if n >= 2 {
		deferred += p.Incentives.Year2
	}
	year0 := -p.CapexNet - deferred
	proj.Cashflows[0] = model.CashflowEntry{Year: 0, NetCashflow: year0, Cumulative: year0}
	proj.Costs[0] = p.CapexNet

	for y := 1; y <= n; y++ {
		growth := math.Pow(1+p.InflationRate, float64(y-1))
		retained := math.Pow(1-p.DegradationRate, float64(y-1))

		savings := p.AnnualSavingsYear1 * growth * retained
		om := p.OMAnnualYear1 * math.Pow(1+p.OMEscalation, float64(y-1))
		replacement := 0.0
		if y == p.Replacement.Year && p.BatteryCapex > 0 {
			replacement = p.Replacement.CostFactor * p.BatteryCapex *
				math.Pow(1+p.InflationRate-p.Replacement.PriceDeclineRate, float64(y))
		}

		cf := savings - om - replacement
		switch y {
		case 1:
			cf += p.Incentives.Year1
		case 2:
			cf += p.Incentives.Year2
		}

		proj.Cashflows[y] = model.CashflowEntry{
			Year:        y,
			NetCashflow: cf,
			Cumulative:  proj.Cashflows[y-1].Cumulative + cf,
		}
		proj.Costs[y] = om + replacement
		proj.Energy[y] = p.AnnualProductionKWh * retained
	}
	return proj, nil
}

// Truncate returns the first years+1 entries of the projection.
func (p *Projection) Truncate(years int) *Projection {
	if years+1 >= len(p.Cashflows) {
		return p
	}
	return &Projection{
		Cashflows: p.Cashflows[:years+1],
		Costs:     p.Costs[:years+1],
		Energy:    p.Energy[:years+1],
	}
}

// NetCashflows extracts the yearly net cashflow values.
func (p *Projection) NetCashflows() []float64 {
	out := make([]float64, len(p.Cashflows))
	for i, c := range p.Cashflows {
		out[i] = c.NetCashflow
	}
	return out
}

// Cumulative extracts the running totals.
func (p *Projection) Cumulative() []float64 {
	out := make([]float64, len(p.Cashflows))
	for i, c := range p.Cashflows {
		out[i] = c.Cumulative
	}
	return out
}

// Metrics computes NPV, IRR and LCOE over the first years of the projection.
// A missing IRR is reported as nil, and LCOE is 0 when nothing is produced.
func (p *Projection) Metrics(discountRate float64, years int) (model.HorizonMetrics, error) {
	t := p.Truncate(years)
	m := model.HorizonMetrics{Years: len(t.Cashflows) - 1}

	cfs := t.NetCashflows()
	npv, err := calculator.CalculateNPV(cfs, discountRate)
	if err != nil {
		return m, err
	}
	m.NPV = npv

	irr, err := calculator.CalculateIRR(cfs)
	switch {
	case err == nil:
		m.IRR = &irr
	case !errors.Is(err, model.ErrNoIRR):
		return m, err
	}

	if lcoe, err := calculator.CalculateLCOE(t.Costs, t.Energy, discountRate); err == nil {
		m.LCOE = lcoe
	}
	return m, nil
}

// Payback returns the simple payback in years, or nil when the outlay is not
// recovered within the projection. A later dip below zero, such as a battery
// replacement, does not move it.
func (p *Projection) Payback() *float64 {
	years, ok := calculator.CalculatePayback(p.Cumulative())
	if !ok {
		return nil
	}
	return &years
}
