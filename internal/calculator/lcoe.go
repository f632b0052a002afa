package calculator

import "errors"

// CalculateLCOE divides the present value of costs by the present value of
// energy, both indexed by year from 0.
func CalculateLCOE(costs, energy []float64, rate float64) (float64, error) {
	if rate <= -1 {
		return 0, errors.New("discount rate must be greater than -100%")
	}
	pvEnergy := DiscountedSum(energy, rate)
	if pvEnergy <= 0 {
		return 0, errors.New("no energy produced over the horizon")
	}
	return DiscountedSum(costs, rate) / pvEnergy, nil
}
