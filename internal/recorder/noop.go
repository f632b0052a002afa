package recorder

import "SolarSizer/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.SimulationRun) error         { return nil }
func (n *NoopRecorder) GetRun(_ string) (*model.SimulationRun, error)  { return nil, ErrNotFound }
func (n *NoopRecorder) ListRuns(_ string, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
