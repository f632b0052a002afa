package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"SolarSizer/internal/analysis"
	"SolarSizer/internal/collector"
	"SolarSizer/internal/metrics"
	"SolarSizer/internal/report"
	"SolarSizer/internal/sizing"
)

// progressBar renders sweep progress on stderr.
type progressBar struct {
	bar *pb.ProgressBar
}

func (p *progressBar) Planned(n int) {
	p.bar = pb.New(n)
	p.bar.Output = os.Stderr
	p.bar.ShowTimeLeft = true
	p.bar.Start()
}

func (p *progressBar) Evaluated(sizing.Candidate, error, time.Duration) {
	p.bar.Increment()
}

func (p *progressBar) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		requestPath string
		profilePath string
		annualKWh   float64
		shape       string
		projectID   string
		label       string
		roofKW      float64
		forcePV     float64
		forceBatt   float64
		forceBattKW float64
		asJSON      bool
		noProgress  bool
		record      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Size a system for one load profile",
		Long: `Runs the sizing sweep for a load profile and prints the recommended system.
The profile comes from a request file, a profile file, or a synthetic shape.
Any --force-* flag evaluates that exact system as a variant instead of sweeping.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rf, err := buildRequest(cmd, requestPath, profilePath, annualKWh, shape)
			if err != nil {
				return err
			}
			if projectID != "" {
				rf.ProjectID = projectID
			}
			if label != "" {
				rf.Label = label
			}
			if cmd.Flags().Changed("roof-kw") {
				rf.RoofConstraintKW = &roofKW
			}
			if cmd.Flags().Changed("force-pv") {
				rf.ForcePVSize = &forcePV
			}
			if cmd.Flags().Changed("force-batt") {
				rf.ForceBatterySize = &forceBatt
			}
			if cmd.Flags().Changed("force-batt-kw") {
				rf.ForceBatteryPower = &forceBattKW
			}

			src, err := rf.Source()
			if err != nil {
				return err
			}
			profile, err := collector.NewCollector(src, log.Logger).Collect()
			if err != nil {
				return err
			}

			base, err := cfg.BaseAssumptions()
			if err != nil {
				return err
			}
			reg := metrics.NewRegistry()
			bar := &progressBar{}
			obs := sizing.Observers(reg)
			if !noProgress && !asJSON {
				obs = sizing.Observers(reg, bar)
			}
			runner := analysis.NewRunner(base, cfg.Sweep, obs, log.Logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			run, err := runner.Run(ctx, rf.Request(profile))
			bar.finish()
			reg.RunFinished("cli", err, time.Since(start))
			if err != nil {
				return err
			}

			if record {
				rec := openRecorder(cfg)
				defer rec.Close()
				if err := rec.RecordRun(run); err != nil {
					return fmt.Errorf("record run: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			fmt.Fprint(out, report.FormatRun(run))
			if run.Sensitivity != nil {
				fmt.Fprintln(out)
				fmt.Fprint(out, report.FormatOptimal(run.Sensitivity))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&requestPath, "request", "", "Request file (YAML or JSON)")
	f.StringVar(&profilePath, "profile", "", "Load profile file (YAML or JSON)")
	f.Float64Var(&annualKWh, "annual-kwh", 0, "Generate a synthetic profile with this annual consumption")
	f.StringVar(&shape, "shape", string(collector.ShapeCommercial), "Synthetic load shape (flat|commercial|residential)")
	f.StringVar(&projectID, "project", "", "Project id")
	f.StringVar(&label, "label", "", "Run label")
	f.Float64Var(&roofKW, "roof-kw", 0, "PV capacity ceiling in kW (default: derived from roof area)")
	f.Float64Var(&forcePV, "force-pv", 0, "Evaluate this PV size (kW) instead of sweeping")
	f.Float64Var(&forceBatt, "force-batt", 0, "Evaluate this battery energy (kWh) instead of sweeping")
	f.Float64Var(&forceBattKW, "force-batt-kw", 0, "Battery power (kW) for a forced battery")
	f.BoolVar(&asJSON, "json", false, "Print the full run as JSON")
	f.BoolVar(&noProgress, "no-progress", false, "Hide the sweep progress bar")
	f.BoolVar(&record, "record", false, "Store the run in the database")
	return cmd
}

// buildRequest reads a request file or assembles one from profile flags.
func buildRequest(cmd *cobra.Command, requestPath, profilePath string, annualKWh float64, shape string) (*analysis.RequestFile, error) {
	set := 0
	for _, ok := range []bool{requestPath != "", profilePath != "", cmd.Flags().Changed("annual-kwh")} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("give exactly one of --request, --profile or --annual-kwh")
	}

	switch {
	case requestPath != "":
		return analysis.LoadRequestFile(requestPath)
	case profilePath != "":
		return &analysis.RequestFile{ProfileFile: profilePath}, nil
	default:
		return &analysis.RequestFile{Synthetic: &analysis.SyntheticProfile{AnnualKWh: annualKWh, Shape: collector.Shape(shape)}}, nil
	}
}
