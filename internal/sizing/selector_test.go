package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SolarSizer/internal/model"
)

func f(v float64) *float64 { return &v }

func TestSelectOptimal_Categories(t *testing.T) {
	scenarios := []model.Scenario{
		{PVSizeKW: 10, NPV25: 5000, IRR25: f(0.15), SelfSufficiencyPercent: 10, SimplePaybackYears: f(6), CapexNet: 10000},
		{PVSizeKW: 50, NPV25: 20000, IRR25: f(0.09), SelfSufficiencyPercent: 35, SimplePaybackYears: f(9), CapexNet: 60000},
		{PVSizeKW: 90, NPV25: 0, IRR25: f(0.06), SelfSufficiencyPercent: 55, SimplePaybackYears: f(12), CapexNet: 110000},
		{PVSizeKW: 120, NPV25: -8000, IRR25: f(0.04), SelfSufficiencyPercent: 70, SimplePaybackYears: f(15), CapexNet: 150000},
	}
	opt, idx := SelectOptimal(scenarios)

	require.Equal(t, 1, idx)
	require.NotNil(t, opt.BestNPV)
	assert.Equal(t, 50.0, opt.BestNPV.PVSizeKW)
	require.NotNil(t, opt.BestIRR)
	assert.Equal(t, 10.0, opt.BestIRR.PVSizeKW)
	require.NotNil(t, opt.MaxSelfSufficiency)
	assert.Equal(t, 90.0, opt.MaxSelfSufficiency.PVSizeKW, "NPV of exactly zero still qualifies")
	require.NotNil(t, opt.FastPayback)
	assert.Equal(t, 10.0, opt.FastPayback.PVSizeKW)
}

func TestSelectOptimal_NothingProfitable(t *testing.T) {
	scenarios := []model.Scenario{
		{PVSizeKW: 10, NPV25: -100, IRR25: f(0.05), SimplePaybackYears: f(20)},
		{PVSizeKW: 20, NPV25: -500},
	}
	opt, idx := SelectOptimal(scenarios)
	assert.Equal(t, -1, idx)
	assert.Nil(t, opt.BestNPV)
	assert.Nil(t, opt.BestIRR, "a negative-NPV project never wins on IRR")
	assert.Nil(t, opt.MaxSelfSufficiency)
	assert.Nil(t, opt.FastPayback)
}

func TestSelectOptimal_TieBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   []model.Scenario
		want int
	}{
		{
			name: "higher IRR wins",
			in: []model.Scenario{
				{PVSizeKW: 1, NPV25: 100, IRR25: f(0.08), CapexNet: 10},
				{PVSizeKW: 2, NPV25: 100, IRR25: f(0.10), CapexNet: 20},
			},
			want: 1,
		},
		{
			name: "missing IRR loses",
			in: []model.Scenario{
				{PVSizeKW: 1, NPV25: 100, CapexNet: 5},
				{PVSizeKW: 2, NPV25: 100, IRR25: f(0.01), CapexNet: 20},
			},
			want: 1,
		},
		{
			name: "lower capex wins",
			in: []model.Scenario{
				{PVSizeKW: 1, NPV25: 100, IRR25: f(0.1), CapexNet: 20},
				{PVSizeKW: 2, NPV25: 100, IRR25: f(0.1), CapexNet: 10},
			},
			want: 1,
		},
		{
			name: "first evaluated wins",
			in: []model.Scenario{
				{PVSizeKW: 1, NPV25: 100, IRR25: f(0.1), CapexNet: 10},
				{PVSizeKW: 2, NPV25: 100, IRR25: f(0.1), CapexNet: 10},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, idx := SelectOptimal(tt.in)
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestSelectOptimal_ReturnsCopies(t *testing.T) {
	scenarios := []model.Scenario{{PVSizeKW: 10, NPV25: 100, IRR25: f(0.1)}}
	opt, _ := SelectOptimal(scenarios)
	opt.BestNPV.PVSizeKW = 99
	assert.Equal(t, 10.0, scenarios[0].PVSizeKW)
}
