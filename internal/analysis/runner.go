package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"SolarSizer/internal/finance"
	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
	"SolarSizer/internal/sizing"
	"SolarSizer/internal/tariff"
)

const sqFtPerM2 = 10.764

// Request asks for one analysis of a load profile.
type Request struct {
	ProjectID   string                     `json:"projectId" yaml:"project_id"`
	Label       string                     `json:"label" yaml:"label"`
	Profile     *model.LoadProfile         `json:"profile" yaml:"profile"`
	Assumptions *model.AssumptionsOverride `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`

	// RoofConstraintKW overrides the capacity derived from roof area.
	RoofConstraintKW *float64 `json:"roofConstraintKW,omitempty" yaml:"roof_constraint_kw,omitempty"`

	ForcePVSize       *float64 `json:"forcePvSize,omitempty" yaml:"force_pv_size,omitempty"`
	ForceBatterySize  *float64 `json:"forceBatterySize,omitempty" yaml:"force_battery_size,omitempty"`
	ForceBatteryPower *float64 `json:"forceBatteryPower,omitempty" yaml:"force_battery_power,omitempty"`
}

// Forced reports whether the request names a specific system instead of a sweep.
func (r *Request) Forced() bool {
	return r.ForcePVSize != nil || r.ForceBatterySize != nil || r.ForceBatteryPower != nil
}

// Runner turns requests into SimulationRuns.
type Runner struct {
	base     model.AnalysisAssumptions
	sweep    sizing.Config
	observer sizing.Observer
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner creates a runner whose requests are merged over base.
func NewRunner(base model.AnalysisAssumptions, sweep sizing.Config, obs sizing.Observer, log zerolog.Logger) *Runner {
	return &Runner{
		base:     base,
		sweep:    sweep,
		observer: obs,
		log:      log,
		now:      time.Now,
	}
}

// RoofCapacityKW converts usable roof area to DC capacity.
func RoofCapacityKW(a *model.AnalysisAssumptions) float64 {
	m2 := a.RoofAreaSqFt / sqFtPerM2 * a.RoofUtilizationRatio
	return m2 * a.PanelPowerDensityWPerM2 / 1000
}

// Assumptions resolves the effective assumptions of a request.
func (r *Runner) Assumptions(o *model.AssumptionsOverride) (model.AnalysisAssumptions, error) {
	a, err := tariff.Apply(model.Merge(r.base, o), o)
	if err != nil {
		return a, err
	}
	if err := a.Validate(); err != nil {
		return a, err
	}
	return a, nil
}

// Run validates the request, sizes the system (or evaluates the forced size)
// and assembles the complete run. Either a complete run or an error is
// returned, never a partial record.
func (r *Runner) Run(ctx context.Context, req Request) (*model.SimulationRun, error) {
	start := r.now()
	a, err := r.Assumptions(req.Assumptions)
	if err != nil {
		return nil, err
	}
	if err := simulation.ValidateProfile(req.Profile); err != nil {
		return nil, err
	}

	roofKW := RoofCapacityKW(&a)
	if req.RoofConstraintKW != nil {
		roofKW = *req.RoofConstraintKW
	}
	if roofKW < 0 || math.IsNaN(roofKW) || math.IsInf(roofKW, 0) {
		return nil, &model.InvalidAssumptionsError{Field: "roofConstraintKW", Value: roofKW, Reason: "must be a non-negative capacity"}
	}

	logger := r.log.With().Str("project", req.ProjectID).Str("label", req.Label).Logger()
	if len(req.Profile.InterpolatedMonths) > 0 {
		logger.Warn().Ints("months", req.Profile.InterpolatedMonths).Msg("profile contains interpolated months")
	}

	var (
		size        simulation.SystemSize
		sensitivity *model.Sensitivity
	)
	if req.Forced() {
		size = r.forcedSize(req)
		logger.Info().Float64("pv_kw", size.PVSizeKW).Float64("batt_kwh", size.BattEnergyKWh).Msg("evaluating forced variant")
	} else {
		sensitivity, err = sizing.Sweep(ctx, req.Profile, roofKW, &a, r.sweep, r.observer)
		if err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
		if sensitivity.FailedPoints > 0 {
			logger.Warn().Int("failed", sensitivity.FailedPoints).Msg("some sweep points could not be evaluated")
		}
		if best := sensitivity.OptimalScenarios.BestNPV; best != nil {
			size = simulation.SystemSize{PVSizeKW: best.PVSizeKW, BattEnergyKWh: best.BattEnergyKWh, BattPowerKW: best.BattPowerKW}
		} else {
			logger.Info().Msg("no profitable configuration; recommending no installation")
		}
	}

	ev, err := sizing.Evaluate(req.Profile, size, &a)
	if err != nil {
		return nil, fmt.Errorf("evaluate recommended system: %w", err)
	}
	run, err := r.assemble(req, a, roofKW, ev, sensitivity)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("run", run.ID).
		Float64("pv_kw", run.PVSizeKW).
		Float64("batt_kwh", run.BattEnergyKWh).
		Float64("npv25", run.NPV25).
		Dur("elapsed", r.now().Sub(start)).
		Msg("analysis complete")
	return run, nil
}

// forcedSize fills unset battery power from the configured duration.
func (r *Runner) forcedSize(req Request) simulation.SystemSize {
	var s simulation.SystemSize
	if req.ForcePVSize != nil {
		s.PVSizeKW = *req.ForcePVSize
	}
	if req.ForceBatterySize != nil {
		s.BattEnergyKWh = *req.ForceBatterySize
	}
	if req.ForceBatteryPower != nil {
		s.BattPowerKW = *req.ForceBatteryPower
	} else if s.BattEnergyKWh > 0 {
		d := r.sweep.BatteryDurationHours
		if d <= 0 {
			d = sizing.DefaultConfig().BatteryDurationHours
		}
		s.BattPowerKW = s.BattEnergyKWh / d
	}
	return s
}

func (r *Runner) assemble(req Request, a model.AnalysisAssumptions, roofKW float64, ev *sizing.Evaluation, sens *model.Sensitivity) (*model.SimulationRun, error) {
	sc := ev.Scenario
	sim := ev.Simulation

	run := &model.SimulationRun{
		ID:                     uuid.NewString(),
		ProjectID:              req.ProjectID,
		Label:                  req.Label,
		CreatedAt:              r.now().UTC(),
		Variant:                req.Forced(),
		Assumptions:            a,
		RoofConstraintKW:       roofKW,
		PVSizeKW:               sc.PVSizeKW,
		BattEnergyKWh:          sc.BattEnergyKWh,
		BattPowerKW:            sc.BattPowerKW,
		Cashflows:              ev.Projection.Truncate(sizing.PrimaryHorizon).Cashflows,
		Breakdown:              sc.Breakdown,
		Incentives:             sc.Incentives,
		Sensitivity:            sens,
		SimplePaybackYears:     sc.SimplePaybackYears,
		AnnualSavings:          sc.AnnualSavings,
		AnnualConsumptionKWh:   sim.AnnualConsumptionKWh,
		AnnualProductionKWh:    sim.TotalProductionKWh,
		CO2AvoidedTonnesPerYr:  (sim.AnnualConsumptionKWh - sim.GridImportKWh) * a.GridEmissionFactor / 1000,
		SelfSufficiencyPercent: sim.SelfSufficiencyPercent(),
		PeakDemandKW:           sim.PeakDemandKW,
		DemandReductionKW:      sim.AnnualDemandReductionKW,
		InterpolatedMonths:     append([]int(nil), req.Profile.InterpolatedMonths...),
	}

	for _, years := range finance.Horizons {
		m, err := ev.Projection.Metrics(a.DiscountRate, years)
		if err != nil {
			return nil, fmt.Errorf("horizon %d: %w", years, err)
		}
		run.Horizons = append(run.Horizons, m)
		switch years {
		case 10:
			run.NPV10, run.IRR10 = m.NPV, m.IRR
		case 20:
			run.NPV20, run.IRR20 = m.NPV, m.IRR
		case 25:
			run.NPV25, run.IRR25 = m.NPV, m.IRR
			run.LCOE = m.LCOE
		case 30:
			run.NPV30, run.IRR30 = m.NPV, m.IRR
		}
	}
	return run, nil
}
