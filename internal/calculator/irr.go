package calculator

import (
	"math"

	"SolarSizer/internal/model"
)

const (
	irrMaxIterations = 200
	irrRateTolerance = 1e-7
	irrNPVTolerance  = 0.01 // dollars
	irrLowestRate    = -0.95
)

// CalculateIRR finds the rate at which the NPV of cashflows is zero.
// The lowest root in [-95%, 1000%] is returned. ErrNoIRR is returned when the
// series never changes sign or no bracket can be found.
func CalculateIRR(cashflows []float64) (float64, error) {
	var hasPos, hasNeg bool
	for _, cf := range cashflows {
		if cf > 0 {
			hasPos = true
		} else if cf < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return 0, model.ErrNoIRR
	}

	lo, hi, ok := bracketIRR(cashflows)
	if !ok {
		return 0, model.ErrNoIRR
	}
	if lo == hi {
		return lo, nil
	}
	fLo := npvAt(cashflows, lo)

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(cashflows, mid)
		if math.Abs(fMid) < irrNPVTolerance || (hi-lo)/2 < irrRateTolerance {
			return mid, nil
		}
		if (fMid < 0) == (fLo < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// bracketIRR scans a fixed rate grid for the first sign change.
func bracketIRR(cashflows []float64) (lo, hi float64, ok bool) {
	prevRate := irrLowestRate
	prev := npvAt(cashflows, prevRate)
	if prev == 0 {
		return prevRate, prevRate, true
	}
	for _, r := range irrGrid {
		f := npvAt(cashflows, r)
		if f == 0 || (f < 0) != (prev < 0) {
			return prevRate, r, true
		}
		prevRate, prev = r, f
	}
	return 0, 0, false
}

var irrGrid = buildIRRGrid()

func buildIRRGrid() []float64 {
	var grid []float64
	for r := irrLowestRate + 0.01; r < 1.0; r += 0.01 {
		grid = append(grid, r)
	}
	for r := 1.0; r <= 10.0; r += 0.25 {
		grid = append(grid, r)
	}
	return grid
}

func npvAt(cashflows []float64, rate float64) float64 {
	v, _ := CalculateNPV(cashflows, rate)
	return v
}
