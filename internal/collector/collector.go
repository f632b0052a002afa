package collector

import (
	"fmt"

	"github.com/rs/zerolog"

	"SolarSizer/internal/model"
	"SolarSizer/internal/simulation"
)

// Collector loads a profile from its source and fills months with no data.
type Collector struct {
	Source Source
	log    zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(src Source, log zerolog.Logger) *Collector {
	return &Collector{Source: src, log: log.With().Str("source", src.Name()).Logger()}
}

// Collect loads the profile and interpolates missing months. Filled months are
// flagged on the profile and logged; the result is validated before return.
func (c *Collector) Collect() (*model.LoadProfile, error) {
	p, err := c.Source.Load()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := simulation.ValidateProfile(p); err != nil {
		return nil, err
	}

	filled, months, err := FillMissingMonths(p.HourlyKWh)
	if err != nil {
		return nil, err
	}
	if len(months) > 0 {
		c.log.Warn().Ints("months", months).Msg("no meter data for some months, interpolated from neighbours")
	}

	out := &model.LoadProfile{HourlyKWh: filled, InterpolatedMonths: mergeMonths(p.InterpolatedMonths, months)}
	c.log.Info().Int("hours", len(filled)).Msg("profile collected")
	return out, nil
}

func mergeMonths(a, b []int) []int {
	var seen [13]bool
	for _, m := range a {
		seen[m] = true
	}
	for _, m := range b {
		seen[m] = true
	}
	var out []int
	for m := 1; m <= 12; m++ {
		if seen[m] {
			out = append(out, m)
		}
	}
	return out
}
