package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/solarsizer.db", cfg.Database.SQLitePath)
	assert.Equal(t, 2*time.Minute, cfg.Schedule.RunTimeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.Sweep.Steps)
	assert.Equal(t, 25, cfg.Financing.HorizonYears)

	a, err := cfg.BaseAssumptions()
	require.NoError(t, err)
	assert.Equal(t, "M", a.TariffCode)
}

func TestLoad_PartialSectionsKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
assumptions:
  tariff_code: G
  discount_rate: 0.08
sweep:
  steps: 6
financing:
  loan_term_years: 15
schedule:
  run_timeout: 30s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 6, cfg.Sweep.Steps)
	assert.Equal(t, 2.0, cfg.Sweep.BatteryDurationHours)
	assert.Equal(t, 15, cfg.Financing.LoanTermYears)
	assert.Equal(t, 7, cfg.Financing.LeaseTermYears)
	assert.Equal(t, 30*time.Second, cfg.Schedule.RunTimeout)

	a, err := cfg.BaseAssumptions()
	require.NoError(t, err)
	assert.Equal(t, 0.08, a.DiscountRate)
	assert.Equal(t, 0.11933, a.TariffEnergy)
	assert.Equal(t, 2.25, a.SolarCostPerW)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/runs.db")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SOLARSIZER_SWEEP_STEPS", "3")

	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.db", cfg.Database.SQLitePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Sweep.Steps)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram:\n  bot_token: x\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "log_level: loud\n"},
		{"bad tariff", "assumptions:\n  tariff_code: Z\n"},
		{"bad ratio", "assumptions:\n  roof_utilization_ratio: 1.5\n"},
		{"bad cron", "schedule:\n  cron: every minute\n"},
		{"negative steps", "sweep:\n  steps: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
