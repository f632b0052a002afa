package simulation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"SolarSizer/internal/model"
)

const (
	minProfileHours = 24
	maxProfileHours = 8784

	shavingIterations = 25
	shavingSlack      = 1e-6 // kW
)

// SystemSize is one candidate configuration.
type SystemSize struct {
	PVSizeKW      float64
	BattEnergyKWh float64
	BattPowerKW   float64
}

// ValidateProfile rejects profiles of the wrong length or with negative or
// non-finite hours.
func ValidateProfile(p *model.LoadProfile) error {
	if p == nil {
		return &model.InvalidProfileError{Hour: -1, Reason: "profile is missing"}
	}
	n := len(p.HourlyKWh)
	if n < minProfileHours || n > maxProfileHours {
		return &model.InvalidProfileError{Hour: -1, Reason: "profile must hold between 24 and 8784 hours"}
	}
	for h, v := range p.HourlyKWh {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.InvalidProfileError{Hour: h, Reason: "value is not finite"}
		}
		if v < 0 {
			return &model.InvalidProfileError{Hour: h, Reason: "value is negative"}
		}
	}
	for _, m := range p.InterpolatedMonths {
		if m < 1 || m > 12 {
			return &model.InvalidProfileError{Hour: -1, Reason: "interpolated month out of range"}
		}
	}
	return nil
}

func validateSize(s SystemSize) error {
	checks := []struct {
		name string
		v    float64
	}{
		{"pvSizeKW", s.PVSizeKW},
		{"battEnergyKWh", s.BattEnergyKWh},
		{"battPowerKW", s.BattPowerKW},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return &model.InvalidAssumptionsError{Field: c.name, Value: c.v, Reason: "must be a non-negative size"}
		}
	}
	return nil
}

// Simulate runs the first operating year.
func Simulate(p *model.LoadProfile, size SystemSize, a *model.AnalysisAssumptions) (*model.SimulationResult, error) {
	return SimulateYear(p, size, a, 1)
}

// SimulateYear balances load, production and storage hour by hour for the
// given operating year (1-based); PV output is degraded by (1-d)^(year-1).
//
// When the tariff carries a demand charge the battery shaves each month's
// peak import toward the lowest target it can hold, charging from the grid
// below that target. Otherwise it only stores surplus production and covers
// deficits.
func SimulateYear(p *model.LoadProfile, size SystemSize, a *model.AnalysisAssumptions, year int) (*model.SimulationResult, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	if year < 1 {
		year = 1
	}

	load := p.HourlyKWh
	hours := len(load)
	production := productionSeries(hours, size.PVSizeKW, a, year)

	bat := &battery{
		capacity:   size.BattEnergyKWh,
		power:      size.BattPowerKW,
		efficiency: a.BatteryRoundTripEfficiency,
	}
	shaving := a.TariffPower > 0 && bat.active()

	imports := make([]float64, hours)
	exports := make([]float64, hours)
	soc := make([]float64, hours)

	for _, span := range monthSpans(hours) {
		if shaving {
			target := shavingTarget(load, production, span, *bat)
			dispatchShaving(load, production, span, bat, target, imports, exports, soc)
		} else {
			dispatchSelfConsumption(load, production, span, bat, imports, exports, soc)
		}
	}

	res := &model.SimulationResult{
		Hourly:               make([]model.HourlyProfileEntry, hours),
		AnnualConsumptionKWh: floats.Sum(load),
		TotalProductionKWh:   floats.Sum(production),
		TotalExportedKWh:     floats.Sum(exports),
		GridImportKWh:        floats.Sum(imports),
	}
	res.SelfConsumptionKWh = res.TotalProductionKWh - res.TotalExportedKWh
	if res.SelfConsumptionKWh < 0 {
		res.SelfConsumptionKWh = 0
	}

	month := 0
	var runBefore, runAfter float64
	for h := 0; h < hours; h++ {
		m := MonthOf(h)
		if m != month {
			month, runBefore, runAfter = m, 0, 0
		}
		runBefore = math.Max(runBefore, load[h])
		runAfter = math.Max(runAfter, imports[h])
		res.MonthlyPeakBefore[m-1] = runBefore
		res.MonthlyPeakAfter[m-1] = runAfter

		res.Hourly[h] = model.HourlyProfileEntry{
			Hour:        h,
			Month:       m,
			Consumption: load[h],
			Production:  production[h],
			GridImport:  imports[h],
			Export:      exports[h],
			BatterySoC:  soc[h],
			PeakBefore:  runBefore,
			PeakAfter:   runAfter,
		}
	}

	res.PeakDemandKW = floats.Max(load)
	for m := 0; m < 12; m++ {
		if d := res.MonthlyPeakBefore[m] - res.MonthlyPeakAfter[m]; d > 0 {
			res.AnnualDemandReductionKW += d
		}
	}
	annualize(res, hours)
	return res, nil
}

// annualize scales the energy totals of a profile that is not exactly one
// year to a year, and the summed peak reductions to twelve months. The
// hourly series are left as simulated.
func annualize(res *model.SimulationResult, hours int) {
	res.AnnualizationFactor = 1
	if hours == model.HoursPerYear {
		return
	}
	f := float64(model.HoursPerYear) / float64(hours)
	res.AnnualizationFactor = f
	res.AnnualConsumptionKWh *= f
	res.TotalProductionKWh *= f
	res.SelfConsumptionKWh *= f
	res.TotalExportedKWh *= f
	res.GridImportKWh *= f

	if months := len(monthSpans(hours)); months < 12 {
		res.AnnualDemandReductionKW *= 12 / float64(months)
	}
}

// productionSeries scales the normalized shape to the array, applying
// orientation, bifacial gain, degradation, thermal losses and inverter clipping.
func productionSeries(hours int, pvKW float64, a *model.AnalysisAssumptions, year int) []float64 {
	out := make([]float64, hours)
	if pvKW <= 0 {
		return out
	}
	shape := ProductionShape(hours, a.SolarYieldKWhPerKWp)
	peak := peakShape(a.SolarYieldKWhPerKWp)

	gain := a.OrientationFactor * math.Pow(1-a.DegradationRate, float64(year-1))
	if a.BifacialEnabled {
		gain *= 1 + a.BifacialBoost
	}
	ceiling := pvKW / a.InverterLoadRatio

	for h, v := range shape {
		if v <= 0 {
			continue
		}
		kwh := pvKW * v * gain * thermalFactor(h, v/peak, a.TemperatureCoefficient)
		if kwh > ceiling {
			kwh = ceiling
		}
		out[h] = kwh
	}
	return out
}

type span struct{ start, end int }

func monthSpans(hours int) []span {
	var spans []span
	start := 0
	for h := 1; h <= hours; h++ {
		if h == hours || MonthOf(h) != MonthOf(start) {
			spans = append(spans, span{start, h})
			start = h
		}
	}
	return spans
}

func dispatchSelfConsumption(load, pv []float64, s span, bat *battery, imports, exports, soc []float64) {
	for h := s.start; h < s.end; h++ {
		net := load[h] - pv[h]
		if net >= 0 {
			imports[h] = net - bat.discharge(net)
		} else {
			surplus := -net
			exports[h] = surplus - bat.charge(surplus)
		}
		soc[h] = bat.soc
	}
}

// dispatchShaving holds grid import at or below target. Surplus production is
// stored first; below the target the battery tops up from the grid.
// It reports whether the target held for the whole span.
func dispatchShaving(load, pv []float64, s span, bat *battery, target float64, imports, exports, soc []float64) bool {
	held := true
	for h := s.start; h < s.end; h++ {
		net := load[h] - pv[h]
		var imp, exp float64
		switch {
		case net < 0:
			surplus := -net
			exp = surplus - bat.charge(surplus)
		case net > target:
			imp = net - bat.discharge(net-target)
			if imp > target+shavingSlack {
				held = false
			}
		default:
			imp = net + bat.charge(target-net)
		}
		if imports != nil {
			imports[h], exports[h], soc[h] = imp, exp, bat.soc
		}
	}
	return held
}

// shavingTarget bisects for the lowest import ceiling the battery can hold
// over the span, starting from its current state of charge.
func shavingTarget(load, pv []float64, s span, bat battery) float64 {
	lo, hi := 0.0, 0.0
	for h := s.start; h < s.end; h++ {
		if net := load[h] - pv[h]; net > hi {
			hi = net
		}
	}
	for i := 0; i < shavingIterations; i++ {
		mid := (lo + hi) / 2
		trial := bat
		if dispatchShaving(load, pv, s, &trial, mid, nil, nil, nil) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
