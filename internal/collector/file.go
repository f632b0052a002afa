package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"SolarSizer/internal/model"
)

// ProfileFile is the on-disk profile format. Either hourly values or twelve
// monthly totals spread over a named shape.
type ProfileFile struct {
	HourlyKWh          []float64 `json:"hourlyKWh" yaml:"hourly_kwh"`
	MonthlyKWh         []float64 `json:"monthlyKWh" yaml:"monthly_kwh"`
	Shape              Shape     `json:"shape" yaml:"shape"`
	InterpolatedMonths []int     `json:"interpolatedMonths" yaml:"interpolated_months"`
}

// FileSource reads a profile from a YAML or JSON file, chosen by extension.
type FileSource struct {
	Path string
}

func (f *FileSource) Name() string { return "file:" + filepath.Base(f.Path) }

func (f *FileSource) Load() (*model.LoadProfile, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var pf ProfileFile
	if err := Decode(f.Path, data, &pf); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", f.Path, err)
	}
	return pf.Profile()
}

// Profile converts the file contents to a load profile.
func (pf *ProfileFile) Profile() (*model.LoadProfile, error) {
	switch {
	case len(pf.HourlyKWh) > 0 && len(pf.MonthlyKWh) > 0:
		return nil, &model.InvalidProfileError{Hour: -1, Reason: "set either hourly or monthly values, not both"}
	case len(pf.HourlyKWh) > 0:
		return &model.LoadProfile{
			HourlyKWh:          append([]float64(nil), pf.HourlyKWh...),
			InterpolatedMonths: pf.InterpolatedMonths,
		}, nil
	case len(pf.MonthlyKWh) == 12:
		hourly, err := SpreadMonthly(pf.MonthlyKWh, pf.Shape)
		if err != nil {
			return nil, err
		}
		return &model.LoadProfile{HourlyKWh: hourly, InterpolatedMonths: pf.InterpolatedMonths}, nil
	case len(pf.MonthlyKWh) > 0:
		return nil, &model.InvalidProfileError{Hour: -1, Reason: fmt.Sprintf("expected 12 monthly values, got %d", len(pf.MonthlyKWh))}
	}
	return nil, &model.InvalidProfileError{Hour: -1, Reason: "profile file has no consumption data"}
}

// Decode parses YAML or JSON by file extension and rejects unknown fields.
func Decode(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	}
	return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}
