package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SolarSizer/internal/financing"
	"SolarSizer/internal/model"
	"SolarSizer/internal/sizing"
)

func ptr[T any](v T) *T { return &v }

func flatProfile(annualKWh float64) *model.LoadProfile {
	hourly := make([]float64, model.HoursPerYear)
	for h := range hourly {
		hourly[h] = annualKWh / model.HoursPerYear
	}
	return &model.LoadProfile{HourlyKWh: hourly}
}

func testRunner() *Runner {
	cfg := sizing.DefaultConfig()
	cfg.Steps = 4
	cfg.Workers = 2
	return NewRunner(model.DefaultAssumptions(), cfg, nil, zerolog.Nop())
}

func TestRoofCapacityKW(t *testing.T) {
	a := model.DefaultAssumptions()
	// 10,000 ft² x 0.8 usable at 200 W/m².
	assert.InDelta(t, 148.64, RoofCapacityKW(&a), 0.01)

	a.RoofAreaSqFt = 0
	assert.Zero(t, RoofCapacityKW(&a))
}

func TestRun_ZeroSystemVariant(t *testing.T) {
	req := Request{
		ProjectID:   "p1",
		Profile:     flatProfile(10000),
		Assumptions: &model.AssumptionsOverride{TariffCode: ptr("D"), SolarCostPerW: ptr(2.0)},
		ForcePVSize: ptr(0.0), ForceBatterySize: ptr(0.0),
	}
	run, err := testRunner().Run(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, run.Variant)
	assert.Nil(t, run.Sensitivity)
	assert.False(t, run.Recommended())
	assert.Equal(t, "D", run.Assumptions.TariffCode)
	assert.Equal(t, 0.0738, run.Assumptions.TariffEnergy)
	assert.Zero(t, run.Breakdown.CapexSolar)
	assert.Zero(t, run.Breakdown.CapexBattery)
	assert.Zero(t, run.Breakdown.CapexNet)
	assert.Zero(t, run.NPV25)
	assert.Nil(t, run.IRR25)
	assert.Zero(t, run.AnnualSavings)
	assert.Zero(t, run.CO2AvoidedTonnesPerYr)
	assert.InDelta(t, 10000, run.AnnualConsumptionKWh, 1e-6)
}

func TestRun_SweepRecommendsBestNPV(t *testing.T) {
	p := flatProfile(400000)
	p.InterpolatedMonths = []int{3}
	req := Request{
		ProjectID:        "p2",
		Label:            "baseline",
		Profile:          p,
		Assumptions:      &model.AssumptionsOverride{TariffEnergy: ptr(0.18)},
		RoofConstraintKW: ptr(80.0),
	}
	run, err := testRunner().Run(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.Variant)
	assert.Equal(t, 80.0, run.RoofConstraintKW)
	require.NotNil(t, run.Sensitivity)
	best := run.Sensitivity.OptimalScenarios.BestNPV
	require.NotNil(t, best)
	assert.Equal(t, best.PVSizeKW, run.PVSizeKW)
	assert.Equal(t, best.BattEnergyKWh, run.BattEnergyKWh)
	assert.InDelta(t, best.NPV25, run.NPV25, 1e-6)
	assert.LessOrEqual(t, run.PVSizeKW, 80.0)

	assert.Len(t, run.Cashflows, 26)
	require.Len(t, run.Horizons, 4)
	assert.Equal(t, 10, run.Horizons[0].Years)
	assert.Equal(t, run.NPV10, run.Horizons[0].NPV)
	assert.Equal(t, run.NPV30, run.Horizons[3].NPV)
	assert.Greater(t, run.NPV30, run.NPV10)
	assert.Equal(t, []int{3}, run.InterpolatedMonths)
	assert.Greater(t, run.CO2AvoidedTonnesPerYr, 0.0)
}

func TestRun_ForcedBatteryPowerDefaultsFromDuration(t *testing.T) {
	req := Request{Profile: flatProfile(50000), ForceBatterySize: ptr(40.0)}
	run, err := testRunner().Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 40.0, run.BattEnergyKWh)
	assert.Equal(t, 20.0, run.BattPowerKW)
}

func TestRun_AbortsOnInvalidInput(t *testing.T) {
	bad := flatProfile(10000)
	bad.HourlyKWh[42] = -3

	_, err := testRunner().Run(context.Background(), Request{Profile: bad})
	var invalidProfile *model.InvalidProfileError
	require.True(t, errors.As(err, &invalidProfile))
	assert.Equal(t, 42, invalidProfile.Hour)

	_, err = testRunner().Run(context.Background(), Request{
		Profile:     flatProfile(10000),
		Assumptions: &model.AssumptionsOverride{DiscountRate: ptr(-1.5)},
	})
	var invalidAssumptions *model.InvalidAssumptionsError
	assert.True(t, errors.As(err, &invalidAssumptions))

	_, err = testRunner().Run(context.Background(), Request{
		Profile:     flatProfile(10000),
		Assumptions: &model.AssumptionsOverride{TariffCode: ptr("X")},
	})
	assert.True(t, errors.As(err, &invalidAssumptions))

	_, err = testRunner().Run(context.Background(), Request{Profile: flatProfile(10000), RoofConstraintKW: ptr(-1.0)})
	assert.True(t, errors.As(err, &invalidAssumptions))
}

func TestCompareFinancing_UsesRunFigures(t *testing.T) {
	req := Request{Profile: flatProfile(200000), ForcePVSize: ptr(50.0)}
	run, err := testRunner().Run(context.Background(), req)
	require.NoError(t, err)

	c, err := CompareFinancing(run, financing.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, run.Breakdown.CapexGross-run.Incentives.Year0, c.Cash.UpfrontCost, 1e-6)
	assert.InDelta(t, run.Incentives.Total(), c.Cash.IncentivesReceived, 1e-6)
	assert.Zero(t, c.PPA.IncentivesReceived)
}

func TestCompareFinancing_ExplicitZeroRatesAreKept(t *testing.T) {
	req := Request{Profile: flatProfile(200000), ForcePVSize: ptr(50.0)}
	run, err := testRunner().Run(context.Background(), req)
	require.NoError(t, err)
	require.Greater(t, run.Assumptions.InflationRate, 0.0)

	inherited, err := CompareFinancing(run, financing.DefaultOptions())
	require.NoError(t, err)
	growth := math.Pow(1+run.Assumptions.InflationRate, 3) * math.Pow(1-run.Assumptions.DegradationRate, 3)
	assert.InDelta(t, run.AnnualSavings*growth, inherited.Cash.Cumulative[4]-inherited.Cash.Cumulative[3], 1e-6)

	o := financing.DefaultOptions()
	o.InflationRate = ptr(0.0)
	o.DegradationRate = ptr(0.0)
	flat, err := CompareFinancing(run, o)
	require.NoError(t, err)
	assert.InDelta(t, run.AnnualSavings, flat.Cash.Cumulative[4]-flat.Cash.Cumulative[3], 1e-6)
}
