package recorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"SolarSizer/internal/model"
)

// SQLiteRecorder persists runs to a SQLite database. The full run is stored
// as JSON next to the columns used for listing.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the HTTP readers do not block the scheduler's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id              TEXT PRIMARY KEY,
			project_id      TEXT NOT NULL,
			label           TEXT,
			created_at      INTEGER NOT NULL,
			variant         INTEGER NOT NULL,
			pv_size_kw      REAL,
			batt_energy_kwh REAL,
			batt_power_kw   REAL,
			npv25           REAL,
			irr25           REAL,
			payback_years   REAL,
			payload         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_project ON simulation_runs(project_id, created_at)`,
		`CREATE TRIGGER IF NOT EXISTS simulation_runs_immutable
			BEFORE UPDATE ON simulation_runs
			BEGIN SELECT RAISE(ABORT, 'simulation runs are immutable'); END`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *model.SimulationRun) error {
	if run.ID == "" {
		return errors.New("run has no id")
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO simulation_runs
		(id, project_id, label, created_at, variant,
		 pv_size_kw, batt_energy_kwh, batt_power_kw,
		 npv25, irr25, payback_years, payload)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.ProjectID, run.Label, run.CreatedAt.UnixNano(), run.Variant,
		run.PVSizeKW, run.BattEnergyKWh, run.BattPowerKW,
		run.NPV25, nullable(run.IRR25), nullable(run.SimplePaybackYears), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	r.log.Debug().Str("run", run.ID).Msg("run recorded")
	return nil
}

func (r *SQLiteRecorder) GetRun(id string) (*model.SimulationRun, error) {
	var payload string
	err := r.db.QueryRow(`SELECT payload FROM simulation_runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	var run model.SimulationRun
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

func (r *SQLiteRecorder) ListRuns(projectID string, limit int) ([]RunSummary, error) {
	query := `SELECT id, project_id, label, created_at, variant,
		pv_size_kw, batt_energy_kwh, batt_power_kw, npv25, irr25, payback_years
		FROM simulation_runs`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s        RunSummary
			created  int64
			irr, pay sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Label, &created, &s.Variant,
			&s.PVSizeKW, &s.BattEnergyKWh, &s.BattPowerKW, &s.NPV25, &irr, &pay); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		if irr.Valid {
			s.IRR25 = &irr.Float64
		}
		if pay.Valid {
			s.SimplePaybackYears = &pay.Float64
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
