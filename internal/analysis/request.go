package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"SolarSizer/internal/collector"
	"SolarSizer/internal/model"
)

// RequestFile is a queued analysis request as written to disk. The load
// profile is either inline, in a separate file, or synthetic.
type RequestFile struct {
	ProjectID   string                     `json:"projectId" yaml:"project_id"`
	Label       string                     `json:"label" yaml:"label"`
	Assumptions *model.AssumptionsOverride `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`

	Profile     *collector.ProfileFile `json:"profile,omitempty" yaml:"profile,omitempty"`
	ProfileFile string                 `json:"profileFile,omitempty" yaml:"profile_file,omitempty"`
	Synthetic   *SyntheticProfile      `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`

	RoofConstraintKW  *float64 `json:"roofConstraintKW,omitempty" yaml:"roof_constraint_kw,omitempty"`
	ForcePVSize       *float64 `json:"forcePvSize,omitempty" yaml:"force_pv_size,omitempty"`
	ForceBatterySize  *float64 `json:"forceBatterySize,omitempty" yaml:"force_battery_size,omitempty"`
	ForceBatteryPower *float64 `json:"forceBatteryPower,omitempty" yaml:"force_battery_power,omitempty"`

	dir string
}

// SyntheticProfile describes a generated load.
type SyntheticProfile struct {
	AnnualKWh float64         `json:"annualKWh" yaml:"annual_kwh"`
	Shape     collector.Shape `json:"shape" yaml:"shape"`
}

// LoadRequestFile reads a YAML or JSON request. Unknown fields are rejected.
func LoadRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	rf := &RequestFile{dir: filepath.Dir(path)}
	if err := collector.Decode(path, data, rf); err != nil {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return rf, nil
}

type inlineSource struct{ pf *collector.ProfileFile }

func (s inlineSource) Name() string                      { return "inline" }
func (s inlineSource) Load() (*model.LoadProfile, error) { return s.pf.Profile() }

// Source returns where the request's load profile comes from. A relative
// profile file is resolved against the request's directory.
func (rf *RequestFile) Source() (collector.Source, error) {
	n := 0
	for _, set := range []bool{rf.Profile != nil, rf.ProfileFile != "", rf.Synthetic != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, &model.InvalidProfileError{Hour: -1, Reason: "request must name exactly one of profile, profile_file or synthetic"}
	}

	switch {
	case rf.Profile != nil:
		return inlineSource{rf.Profile}, nil
	case rf.ProfileFile != "":
		path := rf.ProfileFile
		if !filepath.IsAbs(path) && rf.dir != "" {
			path = filepath.Join(rf.dir, path)
		}
		return &collector.FileSource{Path: path}, nil
	default:
		return &collector.SyntheticSource{AnnualKWh: rf.Synthetic.AnnualKWh, Shape: rf.Synthetic.Shape}, nil
	}
}

// Request builds the runner request around a collected profile.
func (rf *RequestFile) Request(p *model.LoadProfile) Request {
	return Request{
		ProjectID:         rf.ProjectID,
		Label:             rf.Label,
		Profile:           p,
		Assumptions:       rf.Assumptions,
		RoofConstraintKW:  rf.RoofConstraintKW,
		ForcePVSize:       rf.ForcePVSize,
		ForceBatterySize:  rf.ForceBatterySize,
		ForceBatteryPower: rf.ForceBatteryPower,
	}
}
