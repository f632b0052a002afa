package tariff

import (
	"fmt"
	"strings"

	"SolarSizer/internal/model"
)

// Rate is the energy and demand price of one utility rate class.
type Rate struct {
	Code        string
	Description string
	Energy      float64 // $/kWh
	Demand      float64 // $/kW per month
}

// Rates lists the supported rate classes.
var Rates = []Rate{
	{Code: "D", Description: "residential", Energy: 0.0738, Demand: 0},
	{Code: "G", Description: "small power", Energy: 0.11933, Demand: 17.573},
	{Code: "M", Description: "medium power", Energy: 0.06061, Demand: 17.573},
	{Code: "L", Description: "large power", Energy: 0.03287, Demand: 14.476},
}

// Resolve returns the rate for a code. Codes are case-insensitive.
func Resolve(code string) (Rate, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, r := range Rates {
		if r.Code == c {
			return r, nil
		}
	}
	return Rate{}, fmt.Errorf("unknown tariff code %q", code)
}

// Apply fills TariffEnergy and TariffPower from the tariff code unless the
// override set them explicitly.
func Apply(a model.AnalysisAssumptions, o *model.AssumptionsOverride) (model.AnalysisAssumptions, error) {
	if o == nil || o.TariffCode == nil {
		return a, nil
	}
	r, err := Resolve(a.TariffCode)
	if err != nil {
		return a, &model.InvalidAssumptionsError{Field: "tariffCode", Reason: err.Error()}
	}
	a.TariffCode = r.Code
	if o.TariffEnergy == nil {
		a.TariffEnergy = r.Energy
	}
	if o.TariffPower == nil {
		a.TariffPower = r.Demand
	}
	return a, nil
}
