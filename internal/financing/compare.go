package financing

import (
	"math"

	"SolarSizer/internal/calculator"
	"SolarSizer/internal/model"
)

// Options are the contract terms compared. Rates are percentages.
type Options struct {
	LoanTermYears        int     `json:"loanTermYears" yaml:"loan_term_years"`
	InterestRatePct      float64 `json:"interestRatePct" yaml:"interest_rate_pct"`
	DownPaymentPct       float64 `json:"downPaymentPct" yaml:"down_payment_pct"`
	LeaseTermYears       int     `json:"leaseTermYears" yaml:"lease_term_years"`
	LeaseImplicitRatePct float64 `json:"leaseImplicitRatePct" yaml:"lease_implicit_rate_pct"`
	PPATermYears         int     `json:"ppaTermYears" yaml:"ppa_term_years"`
	PPAYear1RatePct      float64 `json:"ppaYear1RatePct" yaml:"ppa_year1_rate_pct"`
	PPAYear2RatePct      float64 `json:"ppaYear2RatePct" yaml:"ppa_year2_rate_pct"`

	HorizonYears int `json:"horizonYears" yaml:"horizon_years"`
	// InflationRate and DegradationRate are fractions. Nil leaves the choice to
	// the caller; Compare treats nil as zero.
	InflationRate   *float64 `json:"inflationRate,omitempty" yaml:"inflation_rate,omitempty"`
	DegradationRate *float64 `json:"degradationRate,omitempty" yaml:"degradation_rate,omitempty"`

	// TariffEquivalentAnnualCost is what the client would pay the utility for
	// the energy the system covers. Zero means the scenario's year-1 savings.
	TariffEquivalentAnnualCost float64 `json:"tariffEquivalentAnnualCost" yaml:"tariff_equivalent_annual_cost"`
	// PPABuyoutCost is paid in the year the system transfers to the client.
	PPABuyoutCost float64 `json:"ppaBuyoutCost" yaml:"ppa_buyout_cost"`
}

// DefaultOptions returns typical commercial terms.
func DefaultOptions() Options {
	return Options{
		LoanTermYears:        10,
		InterestRatePct:      6.5,
		DownPaymentPct:       20,
		LeaseTermYears:       7,
		LeaseImplicitRatePct: 7.5,
		PPATermYears:         16,
		PPAYear1RatePct:      100,
		PPAYear2RatePct:      60,
		HorizonYears:         25,
	}
}

func (o Options) validate() error {
	terms := []struct {
		name string
		v    int
	}{
		{"loanTermYears", o.LoanTermYears},
		{"leaseTermYears", o.LeaseTermYears},
		{"ppaTermYears", o.PPATermYears},
		{"horizonYears", o.HorizonYears},
	}
	for _, t := range terms {
		if t.v < 1 || t.v > 100 {
			return &model.InvalidAssumptionsError{Field: t.name, Value: float64(t.v), Reason: "must be between 1 and 100 years"}
		}
	}

	rates := []struct {
		name string
		v    float64
		max  float64
	}{
		{"interestRatePct", o.InterestRatePct, math.Inf(1)},
		{"downPaymentPct", o.DownPaymentPct, 100},
		{"leaseImplicitRatePct", o.LeaseImplicitRatePct, math.Inf(1)},
		{"ppaYear1RatePct", o.PPAYear1RatePct, math.Inf(1)},
		{"ppaYear2RatePct", o.PPAYear2RatePct, math.Inf(1)},
		{"tariffEquivalentAnnualCost", o.TariffEquivalentAnnualCost, math.Inf(1)},
		{"ppaBuyoutCost", o.PPABuyoutCost, math.Inf(1)},
	}
	for _, r := range rates {
		if math.IsNaN(r.v) || r.v < 0 || r.v > r.max {
			return &model.InvalidAssumptionsError{Field: r.name, Value: r.v, Reason: "out of range"}
		}
	}
	if v := valueOr(o.InflationRate, 0); v <= -1 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &model.InvalidAssumptionsError{Field: "inflationRate", Value: v, Reason: "must be greater than -100%"}
	}
	if v := valueOr(o.DegradationRate, 0); v < 0 || v > 1 || math.IsNaN(v) {
		return &model.InvalidAssumptionsError{Field: "degradationRate", Value: v, Reason: "must be within [0, 1]"}
	}
	return nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Compare expresses the scenario as a cash purchase, an amortizing loan, a
// capital lease and a third-party PPA over the same horizon.
func Compare(in model.FinancingInput, o Options) (*model.FinancingComparison, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if in.CapexGross < 0 || math.IsNaN(in.CapexGross) {
		return nil, &model.InvalidAssumptionsError{Field: "capexGross", Value: in.CapexGross, Reason: "must not be negative"}
	}

	savings := savingsSeries(in.AnnualSavingsYear1, o)
	return &model.FinancingComparison{
		HorizonYears: o.HorizonYears,
		Cash:         cash(in, savings),
		Loan:         loan(in, o, savings),
		Lease:        lease(in, o, savings),
		PPA:          ppa(in, o, savings),
	}, nil
}

// savingsSeries is the owner's avoided utility cost for years 0..horizon.
func savingsSeries(year1 float64, o Options) []float64 {
	inflation := valueOr(o.InflationRate, 0)
	degradation := valueOr(o.DegradationRate, 0)
	out := make([]float64, o.HorizonYears+1)
	for y := 1; y <= o.HorizonYears; y++ {
		out[y] = year1 *
			math.Pow(1+inflation, float64(y-1)) *
			math.Pow(1-degradation, float64(y-1))
	}
	return out
}

// tranche is the incentive disbursed in year y under the usual schedule.
func tranche(s model.IncentiveSchedule, y int) float64 {
	switch y {
	case 0:
		return s.Year0
	case 1:
		return s.Year1
	case 2:
		return s.Year2
	}
	return 0
}

func receivedWithin(s model.IncentiveSchedule, horizon int) float64 {
	total := 0.0
	for y := 0; y <= horizon && y <= 2; y++ {
		total += tranche(s, y)
	}
	return total
}

func accumulate(flows []float64) []float64 {
	out := make([]float64, len(flows))
	run := 0.0
	for i, f := range flows {
		run += f
		out[i] = run
	}
	return out
}

func cash(in model.FinancingInput, savings []float64) model.FinancingOutcome {
	n := len(savings) - 1
	flows := make([]float64, n+1)
	flows[0] = -in.CapexGross + in.Incentives.Year0
	for y := 1; y <= n; y++ {
		flows[y] = savings[y] + tranche(in.Incentives, y)
	}
	cum := accumulate(flows)
	received := receivedWithin(in.Incentives, n)

	return model.FinancingOutcome{
		Method:             model.MethodCash,
		UpfrontCost:        in.CapexGross - in.Incentives.Year0,
		TotalCost:          in.CapexGross - received,
		NetSavings:         cum[n],
		IncentivesReceived: received,
		Cumulative:         cum,
	}
}

func loan(in model.FinancingInput, o Options, savings []float64) model.FinancingOutcome {
	n := len(savings) - 1
	down := in.CapexGross * o.DownPaymentPct / 100
	monthly := calculator.CalculatePayment(in.CapexGross-down, o.InterestRatePct/100/12, o.LoanTermYears*12)

	flows := make([]float64, n+1)
	flows[0] = -down + in.Incentives.Year0
	paid := down
	for y := 1; y <= n; y++ {
		flows[y] = savings[y] + tranche(in.Incentives, y)
		if y <= o.LoanTermYears {
			flows[y] -= 12 * monthly
			paid += 12 * monthly
		}
	}
	cum := accumulate(flows)
	received := receivedWithin(in.Incentives, n)

	return model.FinancingOutcome{
		Method:             model.MethodLoan,
		UpfrontCost:        math.Max(0, down-in.Incentives.Year0),
		MonthlyPayment:     monthly,
		TotalCost:          paid - received,
		NetSavings:         cum[n],
		IncentivesReceived: received,
		Cumulative:         cum,
	}
}

// lease finances the whole gross cost; the lessee still collects every
// incentive tranche, the utility rebate included.
func lease(in model.FinancingInput, o Options, savings []float64) model.FinancingOutcome {
	n := len(savings) - 1
	monthly := calculator.CalculatePayment(in.CapexGross, o.LeaseImplicitRatePct/100/12, o.LeaseTermYears*12)

	flows := make([]float64, n+1)
	flows[0] = in.Incentives.Year0
	paid := 0.0
	for y := 1; y <= n; y++ {
		flows[y] = savings[y] + tranche(in.Incentives, y)
		if y <= o.LeaseTermYears {
			flows[y] -= 12 * monthly
			paid += 12 * monthly
		}
	}
	cum := accumulate(flows)
	received := receivedWithin(in.Incentives, n)

	return model.FinancingOutcome{
		Method:             model.MethodLease,
		MonthlyPayment:     monthly,
		TotalCost:          paid - received,
		NetSavings:         cum[n],
		IncentivesReceived: received,
		Cumulative:         cum,
	}
}

// ppa has the provider own the system and keep every incentive. During the
// term the client trades its flat tariff-equivalent cost for the contracted
// rate; afterwards the system is bought out and savings accrue in full.
func ppa(in model.FinancingInput, o Options, savings []float64) model.FinancingOutcome {
	n := len(savings) - 1
	tariff := o.TariffEquivalentAnnualCost
	if tariff == 0 {
		tariff = in.AnnualSavingsYear1
	}
	year1 := tariff * o.PPAYear1RatePct / 100
	later := tariff * o.PPAYear2RatePct / 100

	flows := make([]float64, n+1)
	paid := 0.0
	for y := 1; y <= n; y++ {
		switch {
		case y == 1:
			flows[y] = tariff - year1
			paid += year1
		case y <= o.PPATermYears:
			flows[y] = tariff - later
			paid += later
		default:
			flows[y] = savings[y]
			if y == o.PPATermYears+1 {
				flows[y] -= o.PPABuyoutCost
				paid += o.PPABuyoutCost
			}
		}
	}
	cum := accumulate(flows)

	return model.FinancingOutcome{
		Method:         model.MethodPPA,
		MonthlyPayment: year1 / 12,
		TotalCost:      paid,
		NetSavings:     cum[n],
		Cumulative:     cum,
	}
}
