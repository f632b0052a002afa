package model

import (
	"errors"
	"fmt"
)

// ErrNoIRR is returned when a cashflow series has no rate at which its NPV crosses zero.
var ErrNoIRR = errors.New("cashflows never cross zero")

// InvalidProfileError reports malformed or non-finite load data.
type InvalidProfileError struct {
	Hour   int // -1 when the problem is not tied to a single hour
	Reason string
}

func (e *InvalidProfileError) Error() string {
	if e.Hour < 0 {
		return fmt.Sprintf("invalid load profile: %s", e.Reason)
	}
	return fmt.Sprintf("invalid load profile at hour %d: %s", e.Hour, e.Reason)
}

// InvalidAssumptionsError reports a negative or out-of-domain coefficient.
type InvalidAssumptionsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidAssumptionsError) Error() string {
	return fmt.Sprintf("invalid assumptions: %s=%g %s", e.Field, e.Value, e.Reason)
}
