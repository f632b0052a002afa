package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SolarSizer/internal/financing"
	"SolarSizer/internal/model"
	"SolarSizer/internal/recorder"
)

type stubRecorder struct {
	recorder.NoopRecorder
	runs map[string]*model.SimulationRun
}

func (s *stubRecorder) GetRun(id string) (*model.SimulationRun, error) {
	if r, ok := s.runs[id]; ok {
		return r, nil
	}
	return nil, recorder.ErrNotFound
}

func (s *stubRecorder) ListRuns(projectID string, limit int) ([]recorder.RunSummary, error) {
	var out []recorder.RunSummary
	for _, r := range s.runs {
		if projectID == "" || r.ProjectID == projectID {
			out = append(out, recorder.Summarize(r))
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestServer() http.Handler {
	rec := &stubRecorder{runs: map[string]*model.SimulationRun{
		"r1": {
			ID:            "r1",
			ProjectID:     "p1",
			CreatedAt:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			Assumptions:   model.DefaultAssumptions(),
			PVSizeKW:      100,
			Breakdown:     model.FinancialBreakdown{CapexGross: 200000, CapexNet: 100000},
			Incentives:    model.IncentiveSchedule{Year0: 40000, Year1: 45000, Year2: 15000},
			AnnualSavings: 25000,
		},
	}}
	h := NewHandler(rec, financing.DefaultOptions(), zerolog.Nop())
	return NewRouter(h, http.NotFoundHandler())
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetRun(t *testing.T) {
	srv := newTestServer()

	rec := get(t, srv, "/runs/r1")
	require.Equal(t, http.StatusOK, rec.Code)
	var run model.SimulationRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, 100.0, run.PVSizeKW)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/runs/missing").Code)
}

func TestListRuns(t *testing.T) {
	srv := newTestServer()

	rec := get(t, srv, "/runs?project=p1")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []recorder.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)

	rec = get(t, srv, "/runs?project=other")
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/runs?limit=zero").Code)
}

func TestFinancing(t *testing.T) {
	srv := newTestServer()
	rec := get(t, srv, "/runs/r1/financing")
	require.Equal(t, http.StatusOK, rec.Code)

	var cmp model.FinancingComparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	assert.Equal(t, 25, cmp.HorizonYears)
	assert.Equal(t, 160000.0, cmp.Cash.UpfrontCost)
	assert.Len(t, cmp.PPA.Cumulative, 26)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/runs/missing/financing").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
