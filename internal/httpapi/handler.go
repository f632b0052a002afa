package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"SolarSizer/internal/analysis"
	"SolarSizer/internal/financing"
	"SolarSizer/internal/recorder"
)

const defaultListLimit = 50

// Handler serves recorded runs read-only.
type Handler struct {
	rec       recorder.Recorder
	financing financing.Options
	log       zerolog.Logger
}

func NewHandler(rec recorder.Recorder, opts financing.Options, log zerolog.Logger) *Handler {
	return &Handler{rec: rec, financing: opts, log: log}
}

// NewRouter wires the routes. metrics may be nil.
func NewRouter(h *Handler, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
	r.HandleFunc("/runs", h.ListRuns).Methods("GET")
	r.HandleFunc("/runs/{id}", h.GetRun).Methods("GET")
	r.HandleFunc("/runs/{id}/financing", h.Financing).Methods("GET")
	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListRuns lists run summaries, newest first. Query: project, limit.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := h.rec.ListRuns(r.URL.Query().Get("project"), limit)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	h.writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one complete run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.rec.GetRun(mux.Vars(r)["id"])
	if errors.Is(err, recorder.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

// Financing compares acquisition methods for a run's recommended system
// under the configured terms.
func (h *Handler) Financing(w http.ResponseWriter, r *http.Request) {
	run, err := h.rec.GetRun(mux.Vars(r)["id"])
	if errors.Is(err, recorder.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	cmp, err := analysis.CompareFinancing(run, h.financing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.writeJSON(w, http.StatusOK, cmp)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn().Err(err).Msg("encode response")
	}
}
