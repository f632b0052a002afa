package sizing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

func commercialProfile() *model.LoadProfile {
	hourly := make([]float64, model.HoursPerYear)
	for h := range hourly {
		hod := h % 24
		if hod >= 7 && hod < 19 {
			hourly[h] = 60
		} else {
			hourly[h] = 20
		}
		if hod == 14 && (h/24)%7 < 5 {
			hourly[h] = 110
		}
	}
	return &model.LoadProfile{HourlyKWh: hourly}
}

func profitableAssumptions() model.AnalysisAssumptions {
	a := model.DefaultAssumptions()
	a.TariffEnergy = 0.18
	a.TariffPower = 15
	return a
}

type countingObserver struct {
	mu        sync.Mutex
	planned   int
	evaluated int
	failed    int
}

func (o *countingObserver) Planned(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.planned += n
}

func (o *countingObserver) Evaluated(_ Candidate, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evaluated++
	if err != nil {
		o.failed++
	}
}

func smallGrid() Config {
	cfg := DefaultConfig()
	cfg.Steps = 4
	cfg.Workers = 3
	return cfg
}

func TestSweep_RespectsRoofConstraint(t *testing.T) {
	a := profitableAssumptions()
	sens, err := Sweep(context.Background(), commercialProfile(), 37.3, &a, smallGrid(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, sens.Frontier)

	for _, pt := range sens.Frontier {
		assert.LessOrEqual(t, pt.PVSizeKW, 37.3)
	}
}

func TestSweep_SingleGlobalOptimum(t *testing.T) {
	a := profitableAssumptions()
	sens, err := Sweep(context.Background(), commercialProfile(), 150, &a, smallGrid(), nil)
	require.NoError(t, err)

	var optimal []model.FrontierPoint
	maxNPV := sens.Frontier[0].NPV25
	for _, pt := range sens.Frontier {
		if pt.IsOptimal {
			optimal = append(optimal, pt)
		}
		if pt.NPV25 > maxNPV {
			maxNPV = pt.NPV25
		}
	}
	require.Len(t, optimal, 1)
	assert.Equal(t, maxNPV, optimal[0].NPV25)

	best := sens.OptimalScenarios.BestNPV
	require.NotNil(t, best)
	assert.Equal(t, optimal[0].PVSizeKW, best.PVSizeKW)
	assert.Equal(t, optimal[0].BattEnergyKWh, best.BattEnergyKWh)
}

func TestSweep_SubsetsAndSources(t *testing.T) {
	a := profitableAssumptions()
	sens, err := Sweep(context.Background(), commercialProfile(), 150, &a, smallGrid(), nil)
	require.NoError(t, err)

	counts := map[model.SweepSource]int{}
	for _, pt := range sens.Frontier {
		counts[pt.SweepSource]++
		switch pt.Type {
		case model.PointSolar:
			assert.Zero(t, pt.BattEnergyKWh)
		case model.PointBattery:
			assert.Zero(t, pt.PVSizeKW)
		case model.PointHybrid:
			assert.Contains(t, []model.SweepSource{model.SourcePVSweep, model.SourceBattSweep}, pt.SweepSource)
		}
		assert.NotEmpty(t, pt.Label)
	}
	assert.Len(t, sens.SolarSweep, counts[model.SourceSolarSweep])
	assert.Len(t, sens.BatterySweep, counts[model.SourceBatterySweep])
	assert.Equal(t, 4, counts[model.SourcePVSweep])
	assert.Equal(t, 4, counts[model.SourceBattSweep])
	assert.Zero(t, sens.FailedPoints)
}

func TestSweep_NoProfitableConfiguration(t *testing.T) {
	a := model.DefaultAssumptions()
	a.SolarCostPerW = 25
	a.BatteryCapacityCost = 9000
	a.BatteryPowerCost = 9000
	a.HQSolarRatePerKW = 0
	a.HQBatteryRatePerKWh = 0

	sens, err := Sweep(context.Background(), commercialProfile(), 100, &a, smallGrid(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sens.Frontier)
	assert.Nil(t, sens.OptimalScenarios.BestNPV)
	assert.Nil(t, sens.OptimalScenarios.BestIRR)
	for _, pt := range sens.Frontier {
		assert.False(t, pt.IsOptimal)
	}
}

func TestSweep_DeterministicAcrossWorkerCounts(t *testing.T) {
	a := profitableAssumptions()
	one := smallGrid()
	one.Workers = 1
	many := smallGrid()
	many.Workers = 8

	s1, err := Sweep(context.Background(), commercialProfile(), 120, &a, one, nil)
	require.NoError(t, err)
	s2, err := Sweep(context.Background(), commercialProfile(), 120, &a, many, nil)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestSweep_ObserverSeesEveryCandidate(t *testing.T) {
	a := profitableAssumptions()
	obs := &countingObserver{}
	sens, err := Sweep(context.Background(), commercialProfile(), 120, &a, smallGrid(), obs)
	require.NoError(t, err)
	assert.Equal(t, obs.planned, obs.evaluated)
	assert.Equal(t, len(sens.Frontier), obs.evaluated-obs.failed)
}

func TestSweep_CancelledContext(t *testing.T) {
	a := profitableAssumptions()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, commercialProfile(), 120, &a, smallGrid(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_RejectsInvalidProfile(t *testing.T) {
	a := profitableAssumptions()
	p := commercialProfile()
	p.HourlyKWh[3] = -2
	_, err := Sweep(context.Background(), p, 120, &a, smallGrid(), nil)
	var invalid *model.InvalidProfileError
	assert.ErrorAs(t, err, &invalid)
}

func TestEvaluateAll_IsolatesFailures(t *testing.T) {
	a := profitableAssumptions()
	obs := &countingObserver{}
	cands := []Candidate{
		{Type: model.PointSolar, Source: model.SourceSolarSweep, Size: simulation.SystemSize{PVSizeKW: -1}},
		{Type: model.PointSolar, Source: model.SourceSolarSweep, Size: simulation.SystemSize{PVSizeKW: 20}},
	}
	out, failed, err := evaluateAll(context.Background(), commercialProfile(), &a, cands, 2, obs)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	require.Len(t, out, 1)
	assert.Equal(t, 20.0, out[0].scenario.PVSizeKW)
	assert.Equal(t, 1, obs.failed)
}

func TestPVAxis_BoundedByConsumption(t *testing.T) {
	a := model.DefaultAssumptions()
	p := commercialProfile()
	sizes := pvAxis(p, 10000, &a, smallGrid())
	require.NotEmpty(t, sizes)

	consumption := 0.0
	for _, v := range p.HourlyKWh {
		consumption += v
	}
	assert.LessOrEqual(t, sizes[len(sizes)-1], 1.5*consumption/a.SolarYieldKWhPerKWp)
}

func TestCandidateLabel(t *testing.T) {
	assert.Equal(t, "PV 12.5 kW", Candidate{Size: simulation.SystemSize{PVSizeKW: 12.5}}.Label())
	assert.Equal(t, "BESS 40.0 kWh / 20.0 kW", Candidate{Size: simulation.SystemSize{BattEnergyKWh: 40, BattPowerKW: 20}}.Label())
	assert.Equal(t, "PV 10.0 kW + BESS 40.0 kWh / 20.0 kW",
		Candidate{Size: simulation.SystemSize{PVSizeKW: 10, BattEnergyKWh: 40, BattPowerKW: 20}}.Label())
}

func TestObservers_FanOutSkipsNil(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	obs := Observers(a, nil, b)

	obs.Planned(3)
	obs.Evaluated(Candidate{}, nil, time.Millisecond)
	obs.Evaluated(Candidate{}, errors.New("boom"), time.Millisecond)

	for _, o := range []*countingObserver{a, b} {
		assert.Equal(t, 3, o.planned)
		assert.Equal(t, 2, o.evaluated)
		assert.Equal(t, 1, o.failed)
	}
}
