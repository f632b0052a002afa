package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"SolarSizer/internal/analysis"
	"SolarSizer/internal/recorder"
	"SolarSizer/internal/report"
)

func newFinancingCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "financing <run-id>",
		Short: "Compare cash, loan, lease and PPA for a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec := openRecorder(cfg)
			defer rec.Close()

			run, err := rec.GetRun(args[0])
			if errors.Is(err, recorder.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			if err != nil {
				return err
			}

			opts := cfg.Financing
			f := cmd.Flags()
			overrides := []struct {
				name string
				dst  *float64
			}{
				{"interest", &opts.InterestRatePct},
				{"down-payment", &opts.DownPaymentPct},
				{"lease-rate", &opts.LeaseImplicitRatePct},
				{"ppa-year1", &opts.PPAYear1RatePct},
				{"ppa-year2", &opts.PPAYear2RatePct},
				{"tariff-equivalent", &opts.TariffEquivalentAnnualCost},
				{"buyout", &opts.PPABuyoutCost},
			}
			for _, o := range overrides {
				if f.Changed(o.name) {
					if *o.dst, err = f.GetFloat64(o.name); err != nil {
						return err
					}
				}
			}
			for name, dst := range map[string]**float64{
				"inflation":   &opts.InflationRate,
				"degradation": &opts.DegradationRate,
			} {
				if f.Changed(name) {
					v, err := f.GetFloat64(name)
					if err != nil {
						return err
					}
					*dst = &v
				}
			}
			for name, dst := range map[string]*int{
				"loan-years":  &opts.LoanTermYears,
				"lease-years": &opts.LeaseTermYears,
				"ppa-years":   &opts.PPATermYears,
				"horizon":     &opts.HorizonYears,
			} {
				if f.Changed(name) {
					if *dst, err = f.GetInt(name); err != nil {
						return err
					}
				}
			}

			cmp, err := analysis.CompareFinancing(run, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cmp)
			}
			fmt.Fprintf(out, "%s  %s\n", run.ID, report.SystemLabel(run.PVSizeKW, run.BattEnergyKWh, run.BattPowerKW))
			fmt.Fprint(out, report.FormatFinancing(cmp))
			return nil
		},
	}

	f := cmd.Flags()
	f.Int("loan-years", 0, "Loan term in years")
	f.Float64("interest", 0, "Loan interest rate (%)")
	f.Float64("down-payment", 0, "Loan down payment (% of gross capex)")
	f.Int("lease-years", 0, "Lease term in years")
	f.Float64("lease-rate", 0, "Lease implicit rate (%)")
	f.Int("ppa-years", 0, "PPA term in years")
	f.Float64("ppa-year1", 0, "PPA year-1 payment (% of tariff equivalent)")
	f.Float64("ppa-year2", 0, "PPA payment from year 2 (% of tariff equivalent)")
	f.Float64("tariff-equivalent", 0, "Annual grid cost the PPA replaces (default: year-1 savings)")
	f.Float64("buyout", 0, "PPA buyout cost at term end")
	f.Int("horizon", 0, "Comparison horizon in years")
	f.Float64("inflation", 0, "Tariff inflation as a fraction (default: the run's)")
	f.Float64("degradation", 0, "Panel degradation as a fraction (default: the run's)")
	f.BoolVar(&asJSON, "json", false, "Print the comparison as JSON")
	return cmd
}
