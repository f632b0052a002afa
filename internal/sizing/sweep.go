package sizing

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

// Config bounds the candidate grid.
type Config struct {
	Steps                 int     `yaml:"steps"`                    // points per axis
	Workers               int     `yaml:"workers"`                  // 0 means MaxParallelism
	BatteryDurationHours  float64 `yaml:"battery_duration_hours"`   // energy / power
	BatteryMaxHoursOfPeak float64 `yaml:"battery_max_hours_of_peak"` // largest battery = peak demand x hours
	PVOversizeRatio       float64 `yaml:"pv_oversize_ratio"`        // largest PV = ratio x consumption / yield
}

// DefaultConfig returns the grid used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Steps:                 10,
		BatteryDurationHours:  2,
		BatteryMaxHoursOfPeak: 4,
		PVOversizeRatio:       1.5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Steps <= 0 {
		c.Steps = d.Steps
	}
	if c.Workers <= 0 {
		c.Workers = MaxParallelism()
	}
	if c.BatteryDurationHours <= 0 {
		c.BatteryDurationHours = d.BatteryDurationHours
	}
	if c.BatteryMaxHoursOfPeak <= 0 {
		c.BatteryMaxHoursOfPeak = d.BatteryMaxHoursOfPeak
	}
	if c.PVOversizeRatio <= 0 {
		c.PVOversizeRatio = d.PVOversizeRatio
	}
	return c
}

// Candidate is one configuration queued for evaluation.
type Candidate struct {
	Type   model.PointType
	Source model.SweepSource
	Size   simulation.SystemSize
}

// Label is the human-readable name of the configuration.
func (c Candidate) Label() string {
	s := c.Size
	switch {
	case s.PVSizeKW > 0 && s.BattEnergyKWh > 0:
		return fmt.Sprintf("PV %.1f kW + BESS %.1f kWh / %.1f kW", s.PVSizeKW, s.BattEnergyKWh, s.BattPowerKW)
	case s.BattEnergyKWh > 0:
		return fmt.Sprintf("BESS %.1f kWh / %.1f kW", s.BattEnergyKWh, s.BattPowerKW)
	default:
		return fmt.Sprintf("PV %.1f kW", s.PVSizeKW)
	}
}

// Observer is notified as candidates are planned and evaluated. Calls may
// arrive from several goroutines at once.
type Observer interface {
	Planned(n int)
	Evaluated(c Candidate, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Planned(int)                              {}
func (nopObserver) Evaluated(Candidate, error, time.Duration) {}

type outcome struct {
	candidate Candidate
	scenario  *model.Scenario
}

// Sweep enumerates solar-only, battery-only and hybrid candidates, evaluates
// them in parallel and assembles the frontier. PV sizes never exceed
// roofConstraintKW. Candidates that fail to evaluate are left out and
// counted in FailedPoints; only a cancelled context fails the sweep.
//
// Hybrid sub-sweeps run after the single-technology sweeps: PV is varied at
// the best battery-only size and the battery at the best solar-only size.
func Sweep(ctx context.Context, p *model.LoadProfile, roofConstraintKW float64, a *model.AnalysisAssumptions, cfg Config, obs Observer) (*model.Sensitivity, error) {
	if err := simulation.ValidateProfile(p); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if roofConstraintKW < 0 || math.IsNaN(roofConstraintKW) {
		return nil, &model.InvalidAssumptionsError{Field: "roofConstraintKW", Value: roofConstraintKW, Reason: "must not be negative"}
	}
	cfg = cfg.withDefaults()
	if obs == nil {
		obs = nopObserver{}
	}

	pvSizes := pvAxis(p, roofConstraintKW, a, cfg)
	battSizes := batteryAxis(p, cfg)
	hybrid := len(pvSizes) > 0 && len(battSizes) > 0

	planned := len(pvSizes) + len(battSizes)
	if hybrid {
		planned += len(pvSizes) + len(battSizes)
	}
	obs.Planned(planned)

	var first []Candidate
	for _, pv := range pvSizes {
		first = append(first, Candidate{Type: model.PointSolar, Source: model.SourceSolarSweep, Size: simulation.SystemSize{PVSizeKW: pv}})
	}
	for _, b := range battSizes {
		first = append(first, Candidate{Type: model.PointBattery, Source: model.SourceBatterySweep, Size: b})
	}
	outcomes, failed, err := evaluateAll(ctx, p, a, first, cfg.Workers, obs)
	if err != nil {
		return nil, err
	}

	if hybrid {
		refPV := referencePV(outcomes, pvSizes)
		refBatt := referenceBattery(outcomes, battSizes)

		var second []Candidate
		for _, pv := range pvSizes {
			second = append(second, Candidate{Type: model.PointHybrid, Source: model.SourcePVSweep, Size: simulation.SystemSize{
				PVSizeKW: pv, BattEnergyKWh: refBatt.BattEnergyKWh, BattPowerKW: refBatt.BattPowerKW,
			}})
		}
		for _, b := range battSizes {
			second = append(second, Candidate{Type: model.PointHybrid, Source: model.SourceBattSweep, Size: simulation.SystemSize{
				PVSizeKW: refPV, BattEnergyKWh: b.BattEnergyKWh, BattPowerKW: b.BattPowerKW,
			}})
		}
		more, moreFailed, err := evaluateAll(ctx, p, a, second, cfg.Workers, obs)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, more...)
		failed += moreFailed
	}

	return assemble(outcomes, failed), nil
}

// evaluateAll evaluates candidates with at most workers in flight and returns
// the successful ones in candidate order.
func evaluateAll(ctx context.Context, p *model.LoadProfile, a *model.AnalysisAssumptions, cands []Candidate, workers int, obs Observer) ([]outcome, int, error) {
	results := make([]*model.Scenario, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cands {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			ev, err := Evaluate(p, c.Size, a)
			obs.Evaluated(c, err, time.Since(start))
			if err != nil {
				return nil
			}
			results[i] = &ev.Scenario
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("sweep interrupted: %w", err)
	}

	out := make([]outcome, 0, len(cands))
	failed := 0
	for i, s := range results {
		if s == nil {
			failed++
			continue
		}
		out = append(out, outcome{candidate: cands[i], scenario: s})
	}
	return out, failed, nil
}

// pvAxis spaces PV sizes evenly up to the roof, also bounded by what the
// load can absorb. Sizes are rounded down to 0.1 kW so none exceeds the roof.
func pvAxis(p *model.LoadProfile, roofKW float64, a *model.AnalysisAssumptions, cfg Config) []float64 {
	maxPV := roofKW
	if a.SolarYieldKWhPerKWp > 0 {
		consumption := 0.0
		for _, v := range p.HourlyKWh {
			consumption += v
		}
		if byLoad := cfg.PVOversizeRatio * consumption / a.SolarYieldKWhPerKWp; byLoad < maxPV {
			maxPV = byLoad
		}
	}
	var sizes []float64
	for i := 1; i <= cfg.Steps; i++ {
		pv := math.Floor(maxPV*float64(i)/float64(cfg.Steps)*10) / 10
		if pv > 0 && (len(sizes) == 0 || pv > sizes[len(sizes)-1]) {
			sizes = append(sizes, pv)
		}
	}
	return sizes
}

// batteryAxis spaces battery energy up to a multiple of the peak hourly load.
func batteryAxis(p *model.LoadProfile, cfg Config) []simulation.SystemSize {
	peak := 0.0
	for _, v := range p.HourlyKWh {
		peak = math.Max(peak, v)
	}
	maxEnergy := peak * cfg.BatteryMaxHoursOfPeak
	var sizes []simulation.SystemSize
	for i := 1; i <= cfg.Steps; i++ {
		e := math.Floor(maxEnergy*float64(i)/float64(cfg.Steps)*10) / 10
		if e <= 0 || (len(sizes) > 0 && e <= sizes[len(sizes)-1].BattEnergyKWh) {
			continue
		}
		sizes = append(sizes, simulation.SystemSize{
			BattEnergyKWh: e,
			BattPowerKW:   math.Round(e/cfg.BatteryDurationHours*10) / 10,
		})
	}
	return sizes
}

// referencePV is the best profitable solar-only size, or the middle of the axis.
func referencePV(outcomes []outcome, axis []float64) float64 {
	if i := bestOf(outcomes, model.SourceSolarSweep); i >= 0 {
		return outcomes[i].scenario.PVSizeKW
	}
	return axis[len(axis)/2]
}

// referenceBattery is the best profitable battery-only size, or the middle of the axis.
func referenceBattery(outcomes []outcome, axis []simulation.SystemSize) simulation.SystemSize {
	if i := bestOf(outcomes, model.SourceBatterySweep); i >= 0 {
		s := outcomes[i].scenario
		return simulation.SystemSize{BattEnergyKWh: s.BattEnergyKWh, BattPowerKW: s.BattPowerKW}
	}
	return axis[len(axis)/2]
}

func bestOf(outcomes []outcome, src model.SweepSource) int {
	best := -1
	for i, o := range outcomes {
		if o.candidate.Source != src || o.scenario.NPV25 <= 0 {
			continue
		}
		if best < 0 || betterNPV(o.scenario, outcomes[best].scenario) {
			best = i
		}
	}
	return best
}

func assemble(outcomes []outcome, failed int) *model.Sensitivity {
	scenarios := make([]model.Scenario, len(outcomes))
	for i, o := range outcomes {
		scenarios[i] = *o.scenario
	}
	optimal, bestIdx := SelectOptimal(scenarios)

	sens := &model.Sensitivity{
		Frontier:         make([]model.FrontierPoint, len(outcomes)),
		SolarSweep:       []model.SolarSweepPoint{},
		BatterySweep:     []model.BatterySweepPoint{},
		OptimalScenarios: optimal,
		FailedPoints:     failed,
	}
	for i, o := range outcomes {
		s := o.scenario
		sens.Frontier[i] = model.FrontierPoint{
			Type:          o.candidate.Type,
			PVSizeKW:      s.PVSizeKW,
			BattEnergyKWh: s.BattEnergyKWh,
			BattPowerKW:   s.BattPowerKW,
			CapexNet:      s.CapexNet,
			NPV25:         s.NPV25,
			IsOptimal:     i == bestIdx,
			SweepSource:   o.candidate.Source,
			Label:         o.candidate.Label(),
		}
	}

	bestSolar := bestOf(outcomes, model.SourceSolarSweep)
	bestBattery := bestOf(outcomes, model.SourceBatterySweep)
	for i, o := range outcomes {
		switch o.candidate.Source {
		case model.SourceSolarSweep:
			sens.SolarSweep = append(sens.SolarSweep, model.SolarSweepPoint{
				PVSizeKW: o.scenario.PVSizeKW, NPV25: o.scenario.NPV25, IsOptimal: i == bestSolar,
			})
		case model.SourceBatterySweep:
			sens.BatterySweep = append(sens.BatterySweep, model.BatterySweepPoint{
				BattEnergyKWh: o.scenario.BattEnergyKWh, NPV25: o.scenario.NPV25, IsOptimal: i == bestBattery,
			})
		}
	}
	return sens
}

type multiObserver []Observer

func (m multiObserver) Planned(n int) {
	for _, o := range m {
		o.Planned(n)
	}
}

func (m multiObserver) Evaluated(c Candidate, err error, elapsed time.Duration) {
	for _, o := range m {
		o.Evaluated(c, err, elapsed)
	}
}

// Observers fans notifications out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}
