package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SolarSizer/internal/model"
	"SolarSizer/internal/recorder"
)

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.Commaf(math.Round(-v))
	}
	return "$" + humanize.Commaf(math.Round(v))
}

func energy(kwh float64) string {
	return humanize.Commaf(math.Round(kwh)) + " kWh"
}

func optionalPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func optionalYears(v *float64) string {
	if v == nil {
		return "not recovered"
	}
	return fmt.Sprintf("%.1f years", *v)
}

// SystemLabel describes a sizing in one line.
func SystemLabel(pvKW, battKWh, battKW float64) string {
	switch {
	case pvKW > 0 && battKWh > 0:
		return fmt.Sprintf("%.1f kW PV + %.1f kWh / %.1f kW battery", pvKW, battKWh, battKW)
	case pvKW > 0:
		return fmt.Sprintf("%.1f kW PV", pvKW)
	case battKWh > 0:
		return fmt.Sprintf("%.1f kWh / %.1f kW battery", battKWh, battKW)
	}
	return "no installation"
}

// FormatRun formats the headline figures of a run.
func FormatRun(run *model.SimulationRun) string {
	var b strings.Builder

	title := run.Label
	if title == "" {
		title = run.ProjectID
	}
	b.WriteString(fmt.Sprintf("Run %s | %s | %s\n", run.ID, title, run.CreatedAt.Format("2006-01-02 15:04")))
	if run.Variant {
		b.WriteString("Variant: forced system size\n")
	}
	b.WriteString(fmt.Sprintf("Tariff %s: $%.5f/kWh, $%.3f/kW-month\n\n",
		run.Assumptions.TariffCode, run.Assumptions.TariffEnergy, run.Assumptions.TariffPower))

	// System
	b.WriteString(fmt.Sprintf("Recommended: %s (roof limit %.1f kW)\n", SystemLabel(run.PVSizeKW, run.BattEnergyKWh, run.BattPowerKW), run.RoofConstraintKW))
	b.WriteString(fmt.Sprintf("Consumption: %s | Production: %s\n", energy(run.AnnualConsumptionKWh), energy(run.AnnualProductionKWh)))
	b.WriteString(fmt.Sprintf("Self-sufficiency: %.1f%% | Peak %.1f kW, demand reduction %.1f kW-months\n",
		run.SelfSufficiencyPercent, run.PeakDemandKW, run.DemandReductionKW))
	b.WriteString(fmt.Sprintf("CO2 avoided: %.2f t/yr\n\n", run.CO2AvoidedTonnesPerYr))

	// Capital
	bd := run.Breakdown
	b.WriteString(fmt.Sprintf("Capex gross: %s (solar %s, battery %s)\n", money(bd.CapexGross), money(bd.CapexSolar), money(bd.CapexBattery)))
	b.WriteString(fmt.Sprintf("Incentives: utility %s + %s, ITC %s, tax shield %s\n",
		money(bd.ActualHQSolar), money(bd.ActualHQBattery), money(bd.ITCAmount), money(bd.TaxShield)))
	b.WriteString(fmt.Sprintf("Capex net: %s\n\n", money(bd.CapexNet)))

	// Returns
	b.WriteString(fmt.Sprintf("Annual savings (year 1): %s\n", money(run.AnnualSavings)))
	b.WriteString(fmt.Sprintf("Payback: %s | LCOE: $%.4f/kWh\n", optionalYears(run.SimplePaybackYears), run.LCOE))
	for _, h := range run.Horizons {
		b.WriteString(fmt.Sprintf("  %2dy  NPV %12s  IRR %s\n", h.Years, money(h.NPV), optionalPct(h.IRR)))
	}

	if len(run.InterpolatedMonths) > 0 {
		months := make([]string, len(run.InterpolatedMonths))
		for i, m := range run.InterpolatedMonths {
			months[i] = time.Month(m).String()[:3]
		}
		b.WriteString(fmt.Sprintf("\nWarning: interpolated load data for %s\n", strings.Join(months, ", ")))
	}
	return b.String()
}

// FormatOptimal formats the named winners of a sweep.
func FormatOptimal(s *model.Sensitivity) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Sweep: %d points", len(s.Frontier)))
	if s.FailedPoints > 0 {
		b.WriteString(fmt.Sprintf(" (%d failed)", s.FailedPoints))
	}
	b.WriteString("\n")

	rows := []struct {
		name string
		sc   *model.Scenario
	}{
		{"Best NPV", s.OptimalScenarios.BestNPV},
		{"Best IRR", s.OptimalScenarios.BestIRR},
		{"Max self-sufficiency", s.OptimalScenarios.MaxSelfSufficiency},
		{"Fastest payback", s.OptimalScenarios.FastPayback},
	}
	for _, r := range rows {
		if r.sc == nil {
			b.WriteString(fmt.Sprintf("  %-21s none profitable\n", r.name+":"))
			continue
		}
		b.WriteString(fmt.Sprintf("  %-21s %s | NPV %s | IRR %s | payback %s\n", r.name+":",
			SystemLabel(r.sc.PVSizeKW, r.sc.BattEnergyKWh, r.sc.BattPowerKW),
			money(r.sc.NPV25), optionalPct(r.sc.IRR25), optionalYears(r.sc.SimplePaybackYears)))
	}
	return b.String()
}

// FormatFinancing formats a side-by-side financing comparison.
func FormatFinancing(c *model.FinancingComparison) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Financing over %d years\n", c.HorizonYears))
	b.WriteString(fmt.Sprintf("  %-6s %12s %12s %12s %14s %12s\n", "", "upfront", "monthly", "total cost", "net savings", "incentives"))
	for _, o := range c.Outcomes() {
		b.WriteString(fmt.Sprintf("  %-6s %12s %12s %12s %14s %12s\n", o.Method,
			money(o.UpfrontCost), money(o.MonthlyPayment), money(o.TotalCost), money(o.NetSavings), money(o.IncentivesReceived)))
	}
	return b.String()
}

// FormatHistory lists stored runs.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	for _, r := range runs {
		kind := "sweep"
		if r.Variant {
			kind = "variant"
		}
		b.WriteString(fmt.Sprintf("%s  %-12s %-8s %-40s NPV %s  (%s)\n",
			r.ID, r.ProjectID, kind, SystemLabel(r.PVSizeKW, r.BattEnergyKWh, r.BattPowerKW),
			money(r.NPV25), humanize.Time(r.CreatedAt)))
	}
	return b.String()
}
