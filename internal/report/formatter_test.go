package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"SolarSizer/internal/model"
	"SolarSizer/internal/recorder"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,234,568", money(1234567.8))
	assert.Equal(t, "-$150,000", money(-150000))
	assert.Equal(t, "$0", money(0))
}

func TestSystemLabel(t *testing.T) {
	assert.Equal(t, "no installation", SystemLabel(0, 0, 0))
	assert.Equal(t, "120.0 kW PV", SystemLabel(120, 0, 0))
	assert.Equal(t, "80.0 kWh / 40.0 kW battery", SystemLabel(0, 80, 40))
	assert.Equal(t, "120.0 kW PV + 80.0 kWh / 40.0 kW battery", SystemLabel(120, 80, 40))
}

func TestFormatRun(t *testing.T) {
	irr := 0.124
	payback := 6.3
	run := &model.SimulationRun{
		ID:                 "abc",
		ProjectID:          "site-7",
		CreatedAt:          time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		Assumptions:        model.DefaultAssumptions(),
		PVSizeKW:           120,
		Breakdown:          model.FinancialBreakdown{CapexGross: 270000, CapexNet: 120000},
		AnnualSavings:      21000,
		SimplePaybackYears: &payback,
		Horizons:           []model.HorizonMetrics{{Years: 25, NPV: 98000, IRR: &irr}, {Years: 10, NPV: -4000}},
		InterpolatedMonths: []int{2, 11},
	}
	out := FormatRun(run)
	assert.Contains(t, out, "Run abc | site-7 | 2026-04-02 09:30")
	assert.Contains(t, out, "Recommended: 120.0 kW PV")
	assert.Contains(t, out, "Capex net: $120,000")
	assert.Contains(t, out, "Payback: 6.3 years")
	assert.Contains(t, out, "IRR 12.4%")
	assert.Contains(t, out, "IRR n/a")
	assert.Contains(t, out, "interpolated load data for Feb, Nov")
	assert.NotContains(t, out, "Variant")
}

func TestFormatOptimal_NoneProfitable(t *testing.T) {
	out := FormatOptimal(&model.Sensitivity{Frontier: make([]model.FrontierPoint, 4), FailedPoints: 1})
	assert.Contains(t, out, "Sweep: 4 points (1 failed)")
	assert.Equal(t, 4, strings.Count(out, "none profitable"))
}

func TestFormatFinancing(t *testing.T) {
	c := &model.FinancingComparison{
		HorizonYears: 25,
		Cash:         model.FinancingOutcome{Method: model.MethodCash, UpfrontCost: 160000},
		Loan:         model.FinancingOutcome{Method: model.MethodLoan, MonthlyPayment: 1816.5},
		Lease:        model.FinancingOutcome{Method: model.MethodLease},
		PPA:          model.FinancingOutcome{Method: model.MethodPPA, NetSavings: 210000},
	}
	out := FormatFinancing(c)
	assert.Contains(t, out, "Financing over 25 years")
	assert.Contains(t, out, "$160,000")
	assert.Contains(t, out, "$1,817")
	for _, m := range []string{"cash", "loan", "lease", "ppa"} {
		assert.Contains(t, out, "  "+m)
	}
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No runs recorded.\n", FormatHistory(nil))
	out := FormatHistory([]recorder.RunSummary{{ID: "r1", ProjectID: "p", Variant: true, PVSizeKW: 10, NPV25: 1500, CreatedAt: time.Now()}})
	assert.Contains(t, out, "variant")
	assert.Contains(t, out, "10.0 kW PV")
	assert.Contains(t, out, "$1,500")
}
