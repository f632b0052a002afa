package recorder

import (
	"errors"
	"time"

	"SolarSizer/internal/model"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID                 string    `json:"id"`
	ProjectID          string    `json:"projectId"`
	Label              string    `json:"label"`
	CreatedAt          time.Time `json:"createdAt"`
	Variant            bool      `json:"variant"`
	PVSizeKW           float64   `json:"pvSizeKW"`
	BattEnergyKWh      float64   `json:"battEnergyKWh"`
	BattPowerKW        float64   `json:"battPowerKW"`
	NPV25              float64   `json:"npv25"`
	IRR25              *float64  `json:"irr25"`
	SimplePaybackYears *float64  `json:"simplePaybackYears"`
}

// Summarize extracts the listing fields of a run.
func Summarize(r *model.SimulationRun) RunSummary {
	return RunSummary{
		ID:                 r.ID,
		ProjectID:          r.ProjectID,
		Label:              r.Label,
		CreatedAt:          r.CreatedAt,
		Variant:            r.Variant,
		PVSizeKW:           r.PVSizeKW,
		BattEnergyKWh:      r.BattEnergyKWh,
		BattPowerKW:        r.BattPowerKW,
		NPV25:              r.NPV25,
		IRR25:              r.IRR25,
		SimplePaybackYears: r.SimplePaybackYears,
	}
}

// Recorder persists simulation runs. Runs are immutable once recorded: a
// second record with the same id is rejected.
type Recorder interface {
	RecordRun(run *model.SimulationRun) error
	GetRun(id string) (*model.SimulationRun, error)
	// ListRuns returns the newest runs first. An empty projectID lists all
	// projects; limit <= 0 means no limit.
	ListRuns(projectID string, limit int) ([]RunSummary, error)
	Close() error
}
