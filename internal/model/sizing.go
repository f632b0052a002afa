package model

// PointType is the kind of system a frontier point describes.
type PointType string

const (
	PointSolar   PointType = "solar"
	PointBattery PointType = "battery"
	PointHybrid  PointType = "hybrid"
)

// SweepSource names the sub-sweep that produced a point.
type SweepSource string

const (
	SourceSolarSweep   SweepSource = "solarSweep"
	SourceBatterySweep SweepSource = "batterySweep"
	SourcePVSweep      SweepSource = "pvSweep"
	SourceBattSweep    SweepSource = "battSweep"
	SourceForced       SweepSource = "forced"
)

// Scenario is a fully evaluated candidate configuration.
type Scenario struct {
	PVSizeKW               float64            `json:"pvSizeKW"`
	BattEnergyKWh          float64            `json:"battEnergyKWh"`
	BattPowerKW            float64            `json:"battPowerKW"`
	NPV25                  float64            `json:"npv25"`
	IRR25                  *float64           `json:"irr25"`
	SelfSufficiencyPercent float64            `json:"selfSufficiencyPercent"`
	SimplePaybackYears     *float64           `json:"simplePaybackYears"`
	CapexNet               float64            `json:"capexNet"`
	CapexGross             float64            `json:"capexGross"`
	AnnualSavings          float64            `json:"annualSavings"`
	AnnualProductionKWh    float64            `json:"annualProductionKWh"`
	SelfConsumptionKWh     float64            `json:"selfConsumptionKWh"`
	Breakdown              FinancialBreakdown `json:"breakdown"`
	Incentives             IncentiveSchedule  `json:"incentives"`
}

// FrontierPoint is one evaluated candidate on the sensitivity frontier.
type FrontierPoint struct {
	Type          PointType   `json:"type"`
	PVSizeKW      float64     `json:"pvSizeKW"`
	BattEnergyKWh float64     `json:"battEnergyKWh"`
	BattPowerKW   float64     `json:"battPowerKW"`
	CapexNet      float64     `json:"capexNet"`
	NPV25         float64     `json:"npv25"`
	IsOptimal     bool        `json:"isOptimal"`
	SweepSource   SweepSource `json:"sweepSource"`
	Label         string      `json:"label"`
}

// SolarSweepPoint is one point of the solar-only sweep.
type SolarSweepPoint struct {
	PVSizeKW  float64 `json:"pvSizeKW"`
	NPV25     float64 `json:"npv25"`
	IsOptimal bool    `json:"isOptimal"`
}

// BatterySweepPoint is one point of the battery-only sweep.
type BatterySweepPoint struct {
	BattEnergyKWh float64 `json:"battEnergyKWh"`
	NPV25         float64 `json:"npv25"`
	IsOptimal     bool    `json:"isOptimal"`
}

// OptimalScenarios are the named winners of one sweep. A nil entry means no candidate qualified.
type OptimalScenarios struct {
	BestNPV            *Scenario `json:"bestNPV"`
	BestIRR            *Scenario `json:"bestIRR"`
	MaxSelfSufficiency *Scenario `json:"maxSelfSufficiency"`
	FastPayback        *Scenario `json:"fastPayback"`
}

// Sensitivity is the output of a sizing sweep.
type Sensitivity struct {
	Frontier         []FrontierPoint     `json:"frontier"`
	SolarSweep       []SolarSweepPoint   `json:"solarSweep"`
	BatterySweep     []BatterySweepPoint `json:"batterySweep"`
	OptimalScenarios OptimalScenarios    `json:"optimalScenarios"`
	FailedPoints     int                 `json:"failedPoints"`
}
