package collector

import "SolarSizer/internal/model"

// Source supplies a raw hourly load profile. Months without meter data are
// returned as zeros and filled by the Collector.
type Source interface {
	Load() (*model.LoadProfile, error)
	Name() string
}
