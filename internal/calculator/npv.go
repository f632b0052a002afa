package calculator

import (
	"errors"
	"math"
)

// CalculateNPV discounts cashflows[t] at rate for t = 0..n-1. Year 0 is not discounted.
func CalculateNPV(cashflows []float64, rate float64) (float64, error) {
	if rate <= -1 {
		return 0, errors.New("discount rate must be greater than -100%")
	}
	npv := 0.0
	factor := 1.0
	for _, cf := range cashflows {
		npv += cf / factor
		factor *= 1 + rate
	}
	return npv, nil
}

// PresentValue discounts a single amount received at the end of year t.
func PresentValue(amount, rate float64, t int) float64 {
	return amount / math.Pow(1+rate, float64(t))
}

// DiscountedSum returns the present value of values[t], t = 0..n-1.
func DiscountedSum(values []float64, rate float64) float64 {
	v, _ := CalculateNPV(values, rate)
	return v
}
