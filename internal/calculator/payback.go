package calculator

// CalculatePayback returns the first year at which the cumulative cashflow
// reaches zero, interpolated linearly within that year. ok is false when the
// investment is not recovered within the series.
func CalculatePayback(cumulative []float64) (years float64, ok bool) {
	if len(cumulative) == 0 {
		return 0, false
	}
	if cumulative[0] >= 0 {
		return 0, true
	}
	for y := 1; y < len(cumulative); y++ {
		if cumulative[y] < 0 {
			continue
		}
		prev := cumulative[y-1]
		step := cumulative[y] - prev
		if step <= 0 {
			return float64(y), true
		}
		return float64(y-1) + (-prev)/step, true
	}
	return 0, false
}
