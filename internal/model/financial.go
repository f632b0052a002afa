package model

// FinancialBreakdown is the capital cost of a system and the incentives that offset it.
type FinancialBreakdown struct {
	CapexSolar      float64 `json:"capexSolar"`
	CapexBattery    float64 `json:"capexBattery"`
	CapexGross      float64 `json:"capexGross"`
	ActualHQSolar   float64 `json:"actualHQSolar"`
	ActualHQBattery float64 `json:"actualHQBattery"`
	ITCAmount       float64 `json:"itcAmount"`
	TaxShield       float64 `json:"taxShield"`
	CapexNet        float64 `json:"capexNet"`
}

// TotalIncentives is everything between gross and net capex.
func (b *FinancialBreakdown) TotalIncentives() float64 {
	return b.ActualHQSolar + b.ActualHQBattery + b.ITCAmount + b.TaxShield
}

// IncentiveSchedule splits incentives by the year they are disbursed.
type IncentiveSchedule struct {
	Year0 float64 `json:"year0"`
	Year1 float64 `json:"year1"`
	Year2 float64 `json:"year2"`
}

// Total is the sum of all tranches.
func (s IncentiveSchedule) Total() float64 {
	return s.Year0 + s.Year1 + s.Year2
}

// Deferred is what arrives after year 0.
func (s IncentiveSchedule) Deferred() float64 {
	return s.Year1 + s.Year2
}

// CashflowEntry is one year of the project cashflow.
type CashflowEntry struct {
	Year        int     `json:"year"`
	NetCashflow float64 `json:"netCashflow"`
	Cumulative  float64 `json:"cumulative"`
}

// HorizonMetrics are the return figures for one analysis horizon.
type HorizonMetrics struct {
	Years int      `json:"years"`
	NPV   float64  `json:"npv"`
	IRR   *float64 `json:"irr"`
	LCOE  float64  `json:"lcoe"`
}
