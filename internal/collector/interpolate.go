package collector

import (
	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

// FillMissingMonths replaces months that are entirely zero with the
// hour-of-day average of the nearest months that have data on either side
// (wrapping around the year). It returns a new slice and the filled months.
func FillMissingMonths(hourly []float64) ([]float64, []int, error) {
	out := append([]float64(nil), hourly...)

	var spans [13][]int // hour indices per month
	for h := range hourly {
		m := simulation.MonthOf(h)
		spans[m] = append(spans[m], h)
	}

	var present [13]bool
	var missing []int
	for m := 1; m <= 12; m++ {
		if len(spans[m]) == 0 {
			continue
		}
		for _, h := range spans[m] {
			if hourly[h] != 0 {
				present[m] = true
				break
			}
		}
		if !present[m] {
			missing = append(missing, m)
		}
	}
	if len(missing) == 0 {
		return out, nil, nil
	}
	if len(missing) == countCovered(spans) {
		return nil, nil, &model.InvalidProfileError{Hour: -1, Reason: "profile has no non-zero month to interpolate from"}
	}

	for _, m := range missing {
		prev, next := neighbour(present, m, -1), neighbour(present, m, 1)
		prevDay := hourOfDayMeans(hourly, spans[prev])
		nextDay := hourOfDayMeans(hourly, spans[next])
		for _, h := range spans[m] {
			out[h] = (prevDay[h%24] + nextDay[h%24]) / 2
		}
	}
	return out, missing, nil
}

func countCovered(spans [13][]int) int {
	n := 0
	for m := 1; m <= 12; m++ {
		if len(spans[m]) > 0 {
			n++
		}
	}
	return n
}

// neighbour walks from m in direction dir until it finds a month with data.
func neighbour(present [13]bool, m, dir int) int {
	for i := 1; i <= 12; i++ {
		c := (m-1+dir*i+12*12)%12 + 1
		if present[c] {
			return c
		}
	}
	return m
}

func hourOfDayMeans(hourly []float64, hours []int) [24]float64 {
	var sum [24]float64
	var n [24]int
	for _, h := range hours {
		sum[h%24] += hourly[h]
		n[h%24]++
	}
	for i := range sum {
		if n[i] > 0 {
			sum[i] /= float64(n[i])
		}
	}
	return sum
}
