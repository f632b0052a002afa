package calculator

import (
	"errors"
	"math"
	"testing"

	"SolarSizer/internal/model"
)

func annuity(amount, rate float64, years int) []float64 {
	cfs := make([]float64, years+1)
	for y := 1; y <= years; y++ {
		cfs[y] = amount
	}
	return cfs
}

func TestCalculateNPV_Annuity(t *testing.T) {
	cfs := annuity(20000, 0.06, 25)
	cfs[0] = -150000
	npv, err := CalculateNPV(cfs, 0.06)
	if err != nil {
		t.Fatal(err)
	}
	want := 20000*(1-math.Pow(1.06, -25))/0.06 - 150000
	if math.Abs(npv-want) > 1e-6 {
		t.Errorf("expected %.2f, got %.2f", want, npv)
	}
	if npv < 105000 || npv > 106500 {
		t.Errorf("npv %.0f outside expected band", npv)
	}
}

func TestCalculateNPV_RejectsRateBelowMinus100(t *testing.T) {
	if _, err := CalculateNPV([]float64{-1, 2}, -1); err == nil {
		t.Error("expected error for rate of -100%")
	}
}

func TestCalculateIRR_RecoversDiscountRate(t *testing.T) {
	// An annuity priced at its 8% present value has an IRR of exactly 8%.
	cfs := annuity(1000, 0.08, 20)
	cfs[0] = -1000 * (1 - math.Pow(1.08, -20)) / 0.08
	irr, err := CalculateIRR(cfs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(irr-0.08) > 1e-5 {
		t.Errorf("expected 0.08, got %.6f", irr)
	}
}

func TestCalculateIRR_NegativeRate(t *testing.T) {
	cfs := []float64{-1000, 300, 300, 300}
	irr, err := CalculateIRR(cfs)
	if err != nil {
		t.Fatal(err)
	}
	if irr >= 0 {
		t.Errorf("expected negative IRR for unrecovered project, got %.4f", irr)
	}
	npv, _ := CalculateNPV(cfs, irr)
	if math.Abs(npv) > 1 {
		t.Errorf("npv at irr should be ~0, got %.4f", npv)
	}
}

func TestCalculateIRR_NoSignChange(t *testing.T) {
	tests := [][]float64{
		{-100, -10, -10},
		{0, 0, 0},
		{100, 10},
		{},
	}
	for _, cfs := range tests {
		if _, err := CalculateIRR(cfs); !errors.Is(err, model.ErrNoIRR) {
			t.Errorf("%v: expected ErrNoIRR, got %v", cfs, err)
		}
	}
}

func TestCalculatePayback(t *testing.T) {
	cum := make([]float64, 26)
	cum[0] = -150000
	for y := 1; y <= 25; y++ {
		cum[y] = cum[y-1] + 20000
	}
	years, ok := CalculatePayback(cum)
	if !ok || years != 7.5 {
		t.Errorf("expected 7.5 years, got %.3f (ok=%v)", years, ok)
	}

	if _, ok := CalculatePayback([]float64{-100, -50, -10}); ok {
		t.Error("expected no payback when never recovered")
	}
	if years, ok := CalculatePayback([]float64{0, 0}); !ok || years != 0 {
		t.Errorf("zero investment should pay back immediately, got %.2f", years)
	}
}

func TestCalculatePayback_FirstCrossing(t *testing.T) {
	// Recovery in year 2, then a replacement dips below zero again.
	cum := []float64{-100, -40, 20, -10, 50}
	years, ok := CalculatePayback(cum)
	if !ok {
		t.Fatal("expected payback")
	}
	if years > 2 {
		t.Errorf("payback must not exceed first recovered year, got %.2f", years)
	}
}

func TestCalculateLCOE(t *testing.T) {
	costs := []float64{1000, 0, 0}
	energy := []float64{0, 1000, 1000}
	lcoe, err := CalculateLCOE(costs, energy, 0)
	if err != nil {
		t.Fatal(err)
	}
	if lcoe != 0.5 {
		t.Errorf("expected 0.5, got %.4f", lcoe)
	}
	if _, err := CalculateLCOE(costs, []float64{0, 0, 0}, 0.05); err == nil {
		t.Error("expected error without energy")
	}
}

func TestCalculatePayment(t *testing.T) {
	if got := CalculatePayment(1200, 0, 12); got != 100 {
		t.Errorf("zero rate: expected 100, got %.2f", got)
	}
	got := CalculatePayment(100000, 0.05/12, 120)
	if math.Abs(got-1060.66) > 0.01 {
		t.Errorf("expected 1060.66, got %.2f", got)
	}
	if got := CalculatePayment(1000, 0.01, 0); got != 0 {
		t.Errorf("no periods: expected 0, got %.2f", got)
	}
}
