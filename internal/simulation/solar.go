package simulation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const daysPerYear = 365

// monthStartDay holds the zero-based day of year each month starts on.
var monthStartDay = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// MonthOf returns the 1-based month of an hour index. Hours past a
// non-leap year fold into December.
func MonthOf(hour int) int {
	day := hour / 24
	if day >= daysPerYear {
		return 12
	}
	m := 12
	for i := 11; i >= 0; i-- {
		if day >= monthStartDay[i] {
			m = i + 1
			break
		}
	}
	return m
}

// seasonal is a sine over the year peaking near the summer solstice.
func seasonal(day int, phaseDay float64) float64 {
	return math.Sin(2 * math.Pi * (float64(day) - phaseDay) / daysPerYear)
}

// unitYear is the per-kWp shape of one non-leap year, summing to 1.
var unitYear = normalizedYear()

func normalizedYear() []float64 {
	shape := make([]float64, daysPerYear*24)
	for h := range shape {
		s := seasonal(h/24, 80)
		dayLength := 12 + 4*s
		sunrise := 12 - dayLength/2
		t := float64(h%24) + 0.5
		if t <= sunrise || t >= sunrise+dayLength {
			continue
		}
		amplitude := 0.65 + 0.35*s
		shape[h] = math.Sin(math.Pi*(t-sunrise)/dayLength) * amplitude
	}
	floats.Scale(1/floats.Sum(shape), shape)
	return shape
}

// ProductionShape returns per-kWp hourly production for the first hours of a
// representative year whose total equals yieldKWhPerKWp. Day length and
// amplitude follow the season; within a day production follows a sine arc
// between sunrise and sunset. Hours past one year wrap to Jan 1.
func ProductionShape(hours int, yieldKWhPerKWp float64) []float64 {
	shape := make([]float64, hours)
	for h := range shape {
		shape[h] = unitYear[h%len(unitYear)] * yieldKWhPerKWp
	}
	return shape
}

// peakShape is the highest per-kWp hourly output of the year.
func peakShape(yieldKWhPerKWp float64) float64 {
	return floats.Max(unitYear) * yieldKWhPerKWp
}

// thermalFactor derates output for cell temperature above 25 °C. Ambient
// temperature follows a seasonal curve; cells run up to 25 °C above ambient
// at full irradiance.
func thermalFactor(hour int, irradianceRatio, tempCoefficient float64) float64 {
	day := (hour / 24) % daysPerYear
	ambient := 6 + 16*seasonal(day, 110)
	cell := ambient + 25*irradianceRatio
	f := 1 + tempCoefficient*(cell-25)
	if f < 0 {
		return 0
	}
	return f
}
