package collector

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

// Shape is a typical daily load pattern.
type Shape string

const (
	ShapeFlat        Shape = "flat"
	ShapeCommercial  Shape = "commercial"
	ShapeResidential Shape = "residential"
)

// weights returns relative consumption per hour of day.
func (s Shape) weights() ([24]float64, error) {
	var w [24]float64
	switch s {
	case ShapeFlat, "":
		for h := range w {
			w[h] = 1
		}
	case ShapeCommercial:
		for h := range w {
			w[h] = 0.35
			if h >= 7 && h < 19 {
				w[h] = 1
			}
		}
	case ShapeResidential:
		for h := range w {
			switch {
			case h >= 6 && h < 9:
				w[h] = 1.2
			case h >= 17 && h < 22:
				w[h] = 1.6
			case h >= 9 && h < 17:
				w[h] = 0.7
			default:
				w[h] = 0.5
			}
		}
	default:
		return w, fmt.Errorf("unknown load shape %q", s)
	}
	return w, nil
}

// SyntheticSource generates a year of load from an annual total and a shape.
type SyntheticSource struct {
	AnnualKWh float64
	Shape     Shape
}

func (s *SyntheticSource) Name() string { return "synthetic:" + string(s.Shape) }

func (s *SyntheticSource) Load() (*model.LoadProfile, error) {
	if s.AnnualKWh < 0 {
		return nil, &model.InvalidProfileError{Hour: -1, Reason: "annual consumption must not be negative"}
	}
	w, err := s.Shape.weights()
	if err != nil {
		return nil, err
	}
	hourly := make([]float64, model.HoursPerYear)
	for h := range hourly {
		hourly[h] = w[h%24]
	}
	if total := floats.Sum(hourly); total > 0 {
		floats.Scale(s.AnnualKWh/total, hourly)
	}
	return &model.LoadProfile{HourlyKWh: hourly}, nil
}

// SpreadMonthly distributes twelve monthly totals over the hours of each
// month following the shape. A zero month stays zero so it can be
// interpolated later.
func SpreadMonthly(monthly []float64, shape Shape) ([]float64, error) {
	if len(monthly) != 12 {
		return nil, &model.InvalidProfileError{Hour: -1, Reason: "expected 12 monthly values"}
	}
	w, err := shape.weights()
	if err != nil {
		return nil, err
	}
	var weightSum [13]float64
	for h := 0; h < model.HoursPerYear; h++ {
		weightSum[simulation.MonthOf(h)] += w[h%24]
	}
	hourly := make([]float64, model.HoursPerYear)
	for h := range hourly {
		m := simulation.MonthOf(h)
		v := monthly[m-1]
		if v < 0 {
			return nil, &model.InvalidProfileError{Hour: h, Reason: fmt.Sprintf("month %d total is negative", m)}
		}
		hourly[h] = v * w[h%24] / weightSum[m]
	}
	return hourly, nil
}
