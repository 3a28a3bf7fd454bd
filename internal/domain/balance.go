package domain

import (
	"fmt"
	"math"
)

// PureSugarBrix is the concentration of the default sweetener (pure sugar).
const PureSugarBrix = 100.0

// Inputs are the three process values plus the sweetener concentration.
// Masses are kilograms, concentrations are percent Brix (0..100).
type Inputs struct {
	InitialMass   float64
	InitialBrix   float64
	TargetBrix    float64
	SweetenerBrix float64
}

// NewInputs builds Inputs for the default sweetener.
func NewInputs(initialMass, initialBrix, targetBrix float64) Inputs {
	return Inputs{
		InitialMass:   initialMass,
		InitialBrix:   initialBrix,
		TargetBrix:    targetBrix,
		SweetenerBrix: PureSugarBrix,
	}
}

// Balance is the solved mass balance for a given set of Inputs.
type Balance struct {
	Inputs Inputs

	SweetenerMass float64
	FinalMass     float64

	// Dilution is set when the target is below the initial concentration.
	// SweetenerMass is negative in that case.
	Dilution bool
}

// DilutionPolicy decides what happens when the target concentration is below
// the initial one.
type DilutionPolicy string

const (
	DilutionAllow  DilutionPolicy = "allow"
	DilutionReject DilutionPolicy = "reject"
)

// ParseDilutionPolicy maps a config/flag value to a DilutionPolicy.
func ParseDilutionPolicy(s string) (DilutionPolicy, error) {
	switch DilutionPolicy(s) {
	case DilutionAllow, DilutionReject:
		return DilutionPolicy(s), nil
	case "":
		return DilutionAllow, nil
	default:
		return "", fmt.Errorf("unsupported dilution policy %q (expected allow|reject)", s)
	}
}

// Calculator solves the two-component mass balance. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	dilution DilutionPolicy
}

type CalculatorOption func(*Calculator)

func WithDilutionPolicy(p DilutionPolicy) CalculatorOption {
	return func(c *Calculator) {
		if p != "" {
			c.dilution = p
		}
	}
}

func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{dilution: DilutionAllow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute solves with the default calculator (dilution allowed).
func Compute(in Inputs) (Balance, error) {
	return NewCalculator().Compute(in)
}

// DilutionPolicy returns the configured policy.
func (c *Calculator) DilutionPolicy() DilutionPolicy {
	return c.dilution
}

// Compute solves
//
//	M1 + M2 = M3
//	M1*X1 + M2*X2 = M3*X3
//
// for M2 (sweetener mass) and M3 (final mass).
func (c *Calculator) Compute(in Inputs) (Balance, error) {
	if err := Validate(in); err != nil {
		return Balance{}, err
	}

	x1 := in.InitialBrix / 100.0
	x2 := in.SweetenerBrix / 100.0
	x3 := in.TargetBrix / 100.0

	if x2 <= x3 {
		return Balance{}, &OpError{
			Op:    "domain.compute",
			Kind:  KindInfeasible,
			Field: "target_brix",
			Err:   ErrInfeasible,
		}
	}

	dilution := x3 < x1
	if dilution && c.dilution == DilutionReject {
		return Balance{}, &OpError{
			Op:    "domain.compute",
			Kind:  KindDilution,
			Field: "target_brix",
			Err:   ErrDilution,
		}
	}

	m2 := in.InitialMass * (x3 - x1) / (x2 - x3)
	m3 := in.InitialMass + m2
	if !isFinite(m2) || !isFinite(m3) {
		return Balance{}, invalidInput("initial_mass_kg", "is too large: the result is out of range")
	}

	return Balance{
		Inputs:        in,
		SweetenerMass: m2,
		FinalMass:     m3,
		Dilution:      dilution,
	}, nil
}

// Validate checks the preconditions on Inputs.
func Validate(in Inputs) error {
	if err := checkFinite("initial_mass_kg", in.InitialMass); err != nil {
		return err
	}
	if in.InitialMass < 0 {
		return invalidInput("initial_mass_kg", "must be >= 0")
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"initial_brix", in.InitialBrix},
		{"target_brix", in.TargetBrix},
	} {
		if err := checkFinite(f.name, f.v); err != nil {
			return err
		}
		if f.v < 0 || f.v > 100 {
			return invalidInput(f.name, "must be within [0, 100]")
		}
	}

	if err := checkFinite("sweetener_brix", in.SweetenerBrix); err != nil {
		return err
	}
	if in.SweetenerBrix <= 0 || in.SweetenerBrix > 100 {
		return invalidInput("sweetener_brix", "must be within (0, 100]")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFinite(field string, v float64) error {
	if !isFinite(v) {
		return invalidInput(field, "must be a finite number")
	}
	return nil
}

func invalidInput(field, msg string) error {
	return &OpError{
		Op:    "domain.validate",
		Kind:  KindInvalidInput,
		Field: field,
		Err:   fmt.Errorf("%s %s: %w", field, msg, ErrInvalidInput),
	}
}
