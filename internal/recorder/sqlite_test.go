package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SolarSizer/internal/model"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleRun(id, project string, created time.Time) *model.SimulationRun {
	irr := 0.11
	return &model.SimulationRun{
		ID:                 id,
		ProjectID:          project,
		Label:              "baseline",
		CreatedAt:          created,
		Assumptions:        model.DefaultAssumptions(),
		PVSizeKW:           120,
		BattEnergyKWh:      60,
		BattPowerKW:        30,
		NPV25:              84000,
		IRR25:              &irr,
		Cashflows:          []model.CashflowEntry{{Year: 0, NetCashflow: -1000, Cumulative: -1000}},
		InterpolatedMonths: []int{2},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestDB(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := sampleRun("a", "p1", created)
	require.NoError(t, r.RecordRun(run))

	got, err := r.GetRun("a")
	require.NoError(t, err)
	assert.Equal(t, run.PVSizeKW, got.PVSizeKW)
	assert.Equal(t, run.Assumptions, got.Assumptions)
	assert.Equal(t, []int{2}, got.InterpolatedMonths)
	require.NotNil(t, got.IRR25)
	assert.Equal(t, 0.11, *got.IRR25)
	assert.Nil(t, got.SimplePaybackYears)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLiteRecorder_RunsAreImmutable(t *testing.T) {
	r := openTestDB(t)
	run := sampleRun("a", "p1", time.Now())
	require.NoError(t, r.RecordRun(run))

	run.NPV25 = -1
	assert.Error(t, r.RecordRun(run))

	_, err := r.db.Exec(`UPDATE simulation_runs SET npv25 = 0 WHERE id = 'a'`)
	assert.Error(t, err)

	got, err := r.GetRun("a")
	require.NoError(t, err)
	assert.Equal(t, 84000.0, got.NPV25)
}

func TestSQLiteRecorder_GetMissing(t *testing.T) {
	r := openTestDB(t)
	_, err := r.GetRun("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteRecorder_ListRuns(t *testing.T) {
	r := openTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.RecordRun(sampleRun("r1", "p1", base)))
	require.NoError(t, r.RecordRun(sampleRun("r2", "p1", base.Add(time.Hour))))
	require.NoError(t, r.RecordRun(sampleRun("r3", "p2", base.Add(2*time.Hour))))

	all, err := r.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].ID)

	p1, err := r.ListRuns("p1", 0)
	require.NoError(t, err)
	require.Len(t, p1, 2)
	assert.Equal(t, "r2", p1[0].ID)
	assert.Equal(t, 120.0, p1[0].PVSizeKW)
	require.NotNil(t, p1[0].IRR25)

	one, err := r.ListRuns("", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(sampleRun("a", "p", time.Now())))
	_, err := r.GetRun("a")
	assert.ErrorIs(t, err, ErrNotFound)
}
