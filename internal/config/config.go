package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"SolarSizer/internal/financing"
	"SolarSizer/internal/model"
	"SolarSizer/internal/sizing"
	"SolarSizer/internal/tariff"
)

// Config holds all application configuration.
type Config struct {
	LogLevel    string                     `yaml:"log_level"`
	Assumptions *model.AssumptionsOverride `yaml:"assumptions"`
	Sweep       sizing.Config              `yaml:"sweep"`
	Financing   financing.Options          `yaml:"financing"`
	Database    struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron       string        `yaml:"cron"`
		InboxDir   string        `yaml:"inbox_dir"`
		RunTimeout time.Duration `yaml:"run_timeout"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Sweep:     sizing.DefaultConfig(),
		Financing: financing.DefaultOptions(),
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SOLARSIZER_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SOLARSIZER_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SOLARSIZER_INBOX"); v != "" {
		cfg.Schedule.InboxDir = v
	}
	if v := os.Getenv("SOLARSIZER_SWEEP_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Steps = n
		}
	}
	if v := os.Getenv("SOLARSIZER_SWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Workers = n
		}
	}

	// Defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/solarsizer.db"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 */5 * * * *"
	}
	if cfg.Schedule.InboxDir == "" {
		cfg.Schedule.InboxDir = "data/inbox"
	}
	if cfg.Schedule.RunTimeout == 0 {
		cfg.Schedule.RunTimeout = 2 * time.Minute
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	return cfg, nil
}

// BaseAssumptions returns the defaults with the configured override applied.
// A configured tariff code fills the rates it was not given explicitly.
func (c *Config) BaseAssumptions() (model.AnalysisAssumptions, error) {
	return tariff.Apply(model.Merge(model.DefaultAssumptions(), c.Assumptions), c.Assumptions)
}

// Validate checks that the configuration can be used to run analyses.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	a, err := c.BaseAssumptions()
	if err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}
	if c.Sweep.Steps < 0 || c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep.steps and sweep.workers must not be negative")
	}
	if c.Sweep.BatteryDurationHours < 0 || c.Sweep.BatteryMaxHoursOfPeak < 0 || c.Sweep.PVOversizeRatio < 0 {
		return fmt.Errorf("sweep ratios must not be negative")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if c.Schedule.RunTimeout < 0 {
		return fmt.Errorf("schedule.run_timeout must not be negative")
	}
	return nil
}
