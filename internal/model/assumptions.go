package model

// AnalysisAssumptions holds every coefficient one analysis run depends on.
// Values are immutable for the lifetime of a run.
type AnalysisAssumptions struct {
	TariffCode   string  `json:"tariffCode" yaml:"tariff_code"`
	TariffEnergy float64 `json:"tariffEnergy" yaml:"tariff_energy"` // $/kWh
	TariffPower  float64 `json:"tariffPower" yaml:"tariff_power"`   // $/kW per month

	SolarCostPerW       float64 `json:"solarCostPerW" yaml:"solar_cost_per_w"`
	BatteryCapacityCost float64 `json:"batteryCapacityCost" yaml:"battery_capacity_cost"` // $/kWh
	BatteryPowerCost    float64 `json:"batteryPowerCost" yaml:"battery_power_cost"`       // $/kW

	DiscountRate  float64 `json:"discountRate" yaml:"discount_rate"`
	InflationRate float64 `json:"inflationRate" yaml:"inflation_rate"`
	TaxRate       float64 `json:"taxRate" yaml:"tax_rate"`

	OMSolarPercent   float64 `json:"omSolarPercent" yaml:"om_solar_percent"`
	OMBatteryPercent float64 `json:"omBatteryPercent" yaml:"om_battery_percent"`
	OMEscalation     float64 `json:"omEscalation" yaml:"om_escalation"`

	BatteryReplacementYear       int     `json:"batteryReplacementYear" yaml:"battery_replacement_year"`
	BatteryReplacementCostFactor float64 `json:"batteryReplacementCostFactor" yaml:"battery_replacement_cost_factor"`
	BatteryPriceDeclineRate      float64 `json:"batteryPriceDeclineRate" yaml:"battery_price_decline_rate"`
	BatteryRoundTripEfficiency   float64 `json:"batteryRoundTripEfficiency" yaml:"battery_round_trip_efficiency"`

	RoofAreaSqFt            float64 `json:"roofAreaSqFt" yaml:"roof_area_sq_ft"`
	RoofUtilizationRatio    float64 `json:"roofUtilizationRatio" yaml:"roof_utilization_ratio"`
	PanelPowerDensityWPerM2 float64 `json:"panelPowerDensityWPerM2" yaml:"panel_power_density_w_per_m2"`

	SolarYieldKWhPerKWp    float64 `json:"solarYieldKWhPerKWp" yaml:"solar_yield_kwh_per_kwp"`
	OrientationFactor      float64 `json:"orientationFactor" yaml:"orientation_factor"`
	InverterLoadRatio      float64 `json:"inverterLoadRatio" yaml:"inverter_load_ratio"`
	TemperatureCoefficient float64 `json:"temperatureCoefficient" yaml:"temperature_coefficient"` // per °C, negative
	DegradationRate        float64 `json:"degradationRate" yaml:"degradation_rate"`
	BifacialEnabled        bool    `json:"bifacialEnabled" yaml:"bifacial_enabled"`
	BifacialBoost          float64 `json:"bifacialBoost" yaml:"bifacial_boost"`

	HQSolarRatePerKW    float64 `json:"hqSolarRatePerKW" yaml:"hq_solar_rate_per_kw"`
	HQSolarCapPercent   float64 `json:"hqSolarCapPercent" yaml:"hq_solar_cap_percent"`
	HQBatteryRatePerKWh float64 `json:"hqBatteryRatePerKWh" yaml:"hq_battery_rate_per_kwh"`
	HQBatteryCapPercent float64 `json:"hqBatteryCapPercent" yaml:"hq_battery_cap_percent"`
	HQProgramCap        float64 `json:"hqProgramCap" yaml:"hq_program_cap"`
	ITCRate             float64 `json:"itcRate" yaml:"itc_rate"`

	// DepreciationSchedule is the share of the depreciable basis deducted in years 1..n.
	DepreciationSchedule []float64 `json:"depreciationSchedule" yaml:"depreciation_schedule"`

	GridEmissionFactor float64 `json:"gridEmissionFactor" yaml:"grid_emission_factor"` // kg CO2 per kWh
}

// DefaultAssumptions returns the documented default record. Each call returns a fresh copy.
func DefaultAssumptions() AnalysisAssumptions {
	return AnalysisAssumptions{
		TariffCode:   "M",
		TariffEnergy: 0.06061,
		TariffPower:  17.573,

		SolarCostPerW:       2.25,
		BatteryCapacityCost: 550,
		BatteryPowerCost:    300,

		DiscountRate:  0.06,
		InflationRate: 0.035,
		TaxRate:       0.265,

		OMSolarPercent:   0.01,
		OMBatteryPercent: 0.005,
		OMEscalation:     0.025,

		BatteryReplacementYear:       10,
		BatteryReplacementCostFactor: 0.60,
		BatteryPriceDeclineRate:      0.05,
		BatteryRoundTripEfficiency:   0.90,

		RoofAreaSqFt:            10000,
		RoofUtilizationRatio:    0.80,
		PanelPowerDensityWPerM2: 200,

		SolarYieldKWhPerKWp:    1150,
		OrientationFactor:      1.0,
		InverterLoadRatio:      1.2,
		TemperatureCoefficient: -0.004,
		DegradationRate:        0.005,
		BifacialEnabled:        false,
		BifacialBoost:          0.08,

		HQSolarRatePerKW:    1000,
		HQSolarCapPercent:   0.40,
		HQBatteryRatePerKWh: 300,
		HQBatteryCapPercent: 0.40,
		HQProgramCap:        1000000,
		ITCRate:             0.30,

		DepreciationSchedule: []float64{0.50, 0.25, 0.125, 0.0625, 0.0625},

		GridEmissionFactor: 0.0017,
	}
}

// AssumptionsOverride is a partial AnalysisAssumptions. Nil fields keep the base value.
type AssumptionsOverride struct {
	TariffCode   *string  `json:"tariffCode,omitempty" yaml:"tariff_code,omitempty"`
	TariffEnergy *float64 `json:"tariffEnergy,omitempty" yaml:"tariff_energy,omitempty"`
	TariffPower  *float64 `json:"tariffPower,omitempty" yaml:"tariff_power,omitempty"`

	SolarCostPerW       *float64 `json:"solarCostPerW,omitempty" yaml:"solar_cost_per_w,omitempty"`
	BatteryCapacityCost *float64 `json:"batteryCapacityCost,omitempty" yaml:"battery_capacity_cost,omitempty"`
	BatteryPowerCost    *float64 `json:"batteryPowerCost,omitempty" yaml:"battery_power_cost,omitempty"`

	DiscountRate  *float64 `json:"discountRate,omitempty" yaml:"discount_rate,omitempty"`
	InflationRate *float64 `json:"inflationRate,omitempty" yaml:"inflation_rate,omitempty"`
	TaxRate       *float64 `json:"taxRate,omitempty" yaml:"tax_rate,omitempty"`

	OMSolarPercent   *float64 `json:"omSolarPercent,omitempty" yaml:"om_solar_percent,omitempty"`
	OMBatteryPercent *float64 `json:"omBatteryPercent,omitempty" yaml:"om_battery_percent,omitempty"`
	OMEscalation     *float64 `json:"omEscalation,omitempty" yaml:"om_escalation,omitempty"`

	BatteryReplacementYear       *int     `json:"batteryReplacementYear,omitempty" yaml:"battery_replacement_year,omitempty"`
	BatteryReplacementCostFactor *float64 `json:"batteryReplacementCostFactor,omitempty" yaml:"battery_replacement_cost_factor,omitempty"`
	BatteryPriceDeclineRate      *float64 `json:"batteryPriceDeclineRate,omitempty" yaml:"battery_price_decline_rate,omitempty"`
	BatteryRoundTripEfficiency   *float64 `json:"batteryRoundTripEfficiency,omitempty" yaml:"battery_round_trip_efficiency,omitempty"`

	RoofAreaSqFt            *float64 `json:"roofAreaSqFt,omitempty" yaml:"roof_area_sq_ft,omitempty"`
	RoofUtilizationRatio    *float64 `json:"roofUtilizationRatio,omitempty" yaml:"roof_utilization_ratio,omitempty"`
	PanelPowerDensityWPerM2 *float64 `json:"panelPowerDensityWPerM2,omitempty" yaml:"panel_power_density_w_per_m2,omitempty"`

	SolarYieldKWhPerKWp    *float64 `json:"solarYieldKWhPerKWp,omitempty" yaml:"solar_yield_kwh_per_kwp,omitempty"`
	OrientationFactor      *float64 `json:"orientationFactor,omitempty" yaml:"orientation_factor,omitempty"`
	InverterLoadRatio      *float64 `json:"inverterLoadRatio,omitempty" yaml:"inverter_load_ratio,omitempty"`
	TemperatureCoefficient *float64 `json:"temperatureCoefficient,omitempty" yaml:"temperature_coefficient,omitempty"`
	DegradationRate        *float64 `json:"degradationRate,omitempty" yaml:"degradation_rate,omitempty"`
	BifacialEnabled        *bool    `json:"bifacialEnabled,omitempty" yaml:"bifacial_enabled,omitempty"`
	BifacialBoost          *float64 `json:"bifacialBoost,omitempty" yaml:"bifacial_boost,omitempty"`

	HQSolarRatePerKW    *float64 `json:"hqSolarRatePerKW,omitempty" yaml:"hq_solar_rate_per_kw,omitempty"`
	HQSolarCapPercent   *float64 `json:"hqSolarCapPercent,omitempty" yaml:"hq_solar_cap_percent,omitempty"`
	HQBatteryRatePerKWh *float64 `json:"hqBatteryRatePerKWh,omitempty" yaml:"hq_battery_rate_per_kwh,omitempty"`
	HQBatteryCapPercent *float64 `json:"hqBatteryCapPercent,omitempty" yaml:"hq_battery_cap_percent,omitempty"`
	HQProgramCap        *float64 `json:"hqProgramCap,omitempty" yaml:"hq_program_cap,omitempty"`
	ITCRate             *float64 `json:"itcRate,omitempty" yaml:"itc_rate,omitempty"`

	DepreciationSchedule []float64 `json:"depreciationSchedule,omitempty" yaml:"depreciation_schedule,omitempty"`

	GridEmissionFactor *float64 `json:"gridEmissionFactor,omitempty" yaml:"grid_emission_factor,omitempty"`
}

// Merge applies the override on top of base and returns the result.
// Neither argument is modified.
func Merge(base AnalysisAssumptions, o *AssumptionsOverride) AnalysisAssumptions {
	out := base
	out.DepreciationSchedule = append([]float64(nil), base.DepreciationSchedule...)
	if o == nil {
		return out
	}

	setString(&out.TariffCode, o.TariffCode)
	setFloat(&out.TariffEnergy, o.TariffEnergy)
	setFloat(&out.TariffPower, o.TariffPower)

	setFloat(&out.SolarCostPerW, o.SolarCostPerW)
	setFloat(&out.BatteryCapacityCost, o.BatteryCapacityCost)
	setFloat(&out.BatteryPowerCost, o.BatteryPowerCost)

	setFloat(&out.DiscountRate, o.DiscountRate)
	setFloat(&out.InflationRate, o.InflationRate)
	setFloat(&out.TaxRate, o.TaxRate)

	setFloat(&out.OMSolarPercent, o.OMSolarPercent)
	setFloat(&out.OMBatteryPercent, o.OMBatteryPercent)
	setFloat(&out.OMEscalation, o.OMEscalation)

	if o.BatteryReplacementYear != nil {
		out.BatteryReplacementYear = *o.BatteryReplacementYear
	}
	setFloat(&out.BatteryReplacementCostFactor, o.BatteryReplacementCostFactor)
	setFloat(&out.BatteryPriceDeclineRate, o.BatteryPriceDeclineRate)
	setFloat(&out.BatteryRoundTripEfficiency, o.BatteryRoundTripEfficiency)

	setFloat(&out.RoofAreaSqFt, o.RoofAreaSqFt)
	setFloat(&out.RoofUtilizationRatio, o.RoofUtilizationRatio)
	setFloat(&out.PanelPowerDensityWPerM2, o.PanelPowerDensityWPerM2)

	setFloat(&out.SolarYieldKWhPerKWp, o.SolarYieldKWhPerKWp)
	setFloat(&out.OrientationFactor, o.OrientationFactor)
	setFloat(&out.InverterLoadRatio, o.InverterLoadRatio)
	setFloat(&out.TemperatureCoefficient, o.TemperatureCoefficient)
	setFloat(&out.DegradationRate, o.DegradationRate)
	if o.BifacialEnabled != nil {
		out.BifacialEnabled = *o.BifacialEnabled
	}
	setFloat(&out.BifacialBoost, o.BifacialBoost)

	setFloat(&out.HQSolarRatePerKW, o.HQSolarRatePerKW)
	setFloat(&out.HQSolarCapPercent, o.HQSolarCapPercent)
	setFloat(&out.HQBatteryRatePerKWh, o.HQBatteryRatePerKWh)
	setFloat(&out.HQBatteryCapPercent, o.HQBatteryCapPercent)
	setFloat(&out.HQProgramCap, o.HQProgramCap)
	setFloat(&out.ITCRate, o.ITCRate)

	if o.DepreciationSchedule != nil {
		out.DepreciationSchedule = append([]float64(nil), o.DepreciationSchedule...)
	}

	setFloat(&out.GridEmissionFactor, o.GridEmissionFactor)
	return out
}

// WithDefaults merges the override over DefaultAssumptions.
func WithDefaults(o *AssumptionsOverride) AnalysisAssumptions {
	return Merge(DefaultAssumptions(), o)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
