package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SolarSizer/internal/config"
	"SolarSizer/internal/recorder"
)

var cfgPath string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:   "solarsizer",
		Short: "Size solar and battery systems against a load profile",
		Long: `SolarSizer sweeps solar and battery sizes against an hourly load profile,
values each candidate over a 30-year cashflow and recommends the configuration
with the best net present value.`,
		SilenceUsage: true,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "Path to the YAML configuration")

	rootCmd.AddCommand(newAnalyzeCmd(), newFinancingCmd(), newServeCmd(), newHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

// openRecorder falls back to the noop recorder when SQLite cannot be opened.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Warn().Err(err).Msg("create database directory")
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
