package sizing

import (
	"math"

	"SolarSizer/internal/model"
)

// SelectOptimal picks the named winners among evaluated scenarios and returns
// the index of the best-NPV scenario, or -1 when none is profitable.
//
//   - bestNPV: highest NPV among NPV > 0; ties go to higher IRR, then lower
//     net capex, then the earlier scenario.
//   - bestIRR: highest IRR among NPV > 0.
//   - maxSelfSufficiency: highest self-sufficiency among NPV >= 0.
//   - fastPayback: shortest payback among NPV >= 0 with a defined payback.
//
// Winners are copies of entries in scenarios, never synthesized.
func SelectOptimal(scenarios []model.Scenario) (model.OptimalScenarios, int) {
	bestNPV, bestIRR, maxSelf, fastest := -1, -1, -1, -1

	for i := range scenarios {
		s := &scenarios[i]
		if s.NPV25 > 0 {
			if bestNPV < 0 || betterNPV(s, &scenarios[bestNPV]) {
				bestNPV = i
			}
			if s.IRR25 != nil && (bestIRR < 0 || betterIRR(s, &scenarios[bestIRR])) {
				bestIRR = i
			}
		}
		if s.NPV25 >= 0 {
			if maxSelf < 0 || betterSelfSufficiency(s, &scenarios[maxSelf]) {
				maxSelf = i
			}
			if s.SimplePaybackYears != nil && (fastest < 0 || fasterPayback(s, &scenarios[fastest])) {
				fastest = i
			}
		}
	}

	return model.OptimalScenarios{
		BestNPV:            pick(scenarios, bestNPV),
		BestIRR:            pick(scenarios, bestIRR),
		MaxSelfSufficiency: pick(scenarios, maxSelf),
		FastPayback:        pick(scenarios, fastest),
	}, bestNPV
}

func pick(scenarios []model.Scenario, i int) *model.Scenario {
	if i < 0 {
		return nil
	}
	s := scenarios[i]
	return &s
}

// betterNPV reports whether a strictly beats b. Equal candidates keep the
// earlier one because callers iterate in evaluation order.
func betterNPV(a, b *model.Scenario) bool {
	if a.NPV25 != b.NPV25 {
		return a.NPV25 > b.NPV25
	}
	if ia, ib := irrOrInf(a), irrOrInf(b); ia != ib {
		return ia > ib
	}
	return a.CapexNet < b.CapexNet
}

func betterIRR(a, b *model.Scenario) bool {
	if *a.IRR25 != *b.IRR25 {
		return *a.IRR25 > *b.IRR25
	}
	return a.NPV25 > b.NPV25
}

func betterSelfSufficiency(a, b *model.Scenario) bool {
	if a.SelfSufficiencyPercent != b.SelfSufficiencyPercent {
		return a.SelfSufficiencyPercent > b.SelfSufficiencyPercent
	}
	return a.NPV25 > b.NPV25
}

func fasterPayback(a, b *model.Scenario) bool {
	if *a.SimplePaybackYears != *b.SimplePaybackYears {
		return *a.SimplePaybackYears < *b.SimplePaybackYears
	}
	return a.NPV25 > b.NPV25
}

func irrOrInf(s *model.Scenario) float64 {
	if s.IRR25 == nil {
		return math.Inf(-1)
	}
	return *s.IRR25
}
