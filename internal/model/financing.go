package model

// FinancingMethod is a way of acquiring the system.
type FinancingMethod string

const (
	MethodCash  FinancingMethod = "cash"
	MethodLoan  FinancingMethod = "loan"
	MethodLease FinancingMethod = "lease"
	MethodPPA   FinancingMethod = "ppa"
)

// FinancingInput is the part of a scenario the comparator re-expresses.
type FinancingInput struct {
	CapexGross         float64           `json:"capexGross"`
	CapexNet           float64           `json:"capexNet"`
	Incentives         IncentiveSchedule `json:"incentives"`
	AnnualSavingsYear1 float64           `json:"annualSavingsYear1"`
}

// FinancingOutcome is the client's view of one acquisition method.
// Cumulative holds years 0..horizon.
type FinancingOutcome struct {
	Method             FinancingMethod `json:"method"`
	UpfrontCost        float64         `json:"upfrontCost"`
	MonthlyPayment     float64         `json:"monthlyPayment"`
	TotalCost          float64         `json:"totalCost"`
	NetSavings         float64         `json:"netSavingsOverHorizon"`
	IncentivesReceived float64         `json:"incentivesReceived"`
	Cumulative         []float64       `json:"yearByYearCumulativeCashflow"`
}

// FinancingComparison lines the four methods up over one horizon.
type FinancingComparison struct {
	HorizonYears int              `json:"horizonYears"`
	Cash         FinancingOutcome `json:"cash"`
	Loan         FinancingOutcome `json:"loan"`
	Lease        FinancingOutcome `json:"lease"`
	PPA          FinancingOutcome `json:"ppa"`
}

// Outcomes returns the methods in display order.
func (c *FinancingComparison) Outcomes() []FinancingOutcome {
	return []FinancingOutcome{c.Cash, c.Loan, c.Lease, c.PPA}
}
