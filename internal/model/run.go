package model

import "time"

// SimulationRun is the immutable result of one "run analysis" action.
type SimulationRun struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	Variant   bool      `json:"variant"`

	Assumptions      AnalysisAssumptions `json:"assumptions"`
	RoofConstraintKW float64             `json:"roofConstraintKW"`

	PVSizeKW      float64 `json:"pvSizeKW"`
	BattEnergyKWh float64 `json:"battEnergyKWh"`
	BattPowerKW   float64 `json:"battPowerKW"`

	Cashflows   []CashflowEntry    `json:"cashflows"`
	Breakdown   FinancialBreakdown `json:"breakdown"`
	Incentives  IncentiveSchedule  `json:"incentives"`
	Sensitivity *Sensitivity       `json:"sensitivity,omitempty"`

	NPV10 float64  `json:"npv10"`
	NPV20 float64  `json:"npv20"`
	NPV25 float64  `json:"npv25"`
	NPV30 float64  `json:"npv30"`
	IRR10 *float64 `json:"irr10"`
	IRR20 *float64 `json:"irr20"`
	IRR25 *float64 `json:"irr25"`
	IRR30 *float64 `json:"irr30"`

	Horizons []HorizonMetrics `json:"horizons"`

	LCOE                   float64  `json:"lcoe"`
	SimplePaybackYears     *float64 `json:"simplePaybackYears"`
	AnnualSavings          float64  `json:"annualSavings"`
	AnnualConsumptionKWh   float64  `json:"annualConsumptionKWh"`
	AnnualProductionKWh    float64  `json:"annualProductionKWh"`
	CO2AvoidedTonnesPerYr  float64  `json:"co2AvoidedTonnesPerYear"`
	SelfSufficiencyPercent float64  `json:"selfSufficiencyPercent"`
	PeakDemandKW           float64  `json:"peakDemandKW"`
	DemandReductionKW      float64  `json:"annualDemandReductionKW"`

	InterpolatedMonths []int `json:"interpolatedMonths,omitempty"`
}

// Recommended reports whether the run recommends any investment.
func (r *SimulationRun) Recommended() bool {
	return r.PVSizeKW > 0 || r.BattEnergyKWh > 0
}
