package calculator

import "math"

// CalculatePayment uses the standard annuity formula P*r(1+r)^n / ((1+r)^n - 1).
// At a 0% rate it returns principal / periods.
func CalculatePayment(principal, periodicRate float64, periods int) float64 {
	if periods <= 0 || principal == 0 {
		return 0
	}
	if periodicRate <= 0 {
		return principal / float64(periods)
	}
	n := float64(periods)
	factor := math.Pow(1+periodicRate, n)
	return principal * periodicRate * factor / (factor - 1)
}
