package domain

import (
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals used to display masses.
const DefaultPrecision = 2

// Derivation is the step-by-step explanation of a Balance, with the actual
// values substituted into the conservation equations. Display only.
type Derivation struct {
	Principles []string
	Equations  []string
	Steps      []string
}

// Explain builds the derivation for b, printing masses with precision decimals.
func Explain(b Balance, precision int) Derivation {
	if precision < 0 {
		precision = DefaultPrecision
	}

	in := b.Inputs
	m1 := formatPlain(in.InitialMass)
	x1 := formatPlain(in.InitialBrix / 100.0)
	x2 := formatPlain(in.SweetenerBrix / 100.0)
	x3 := formatPlain(in.TargetBrix / 100.0)
	m2 := formatFixed(b.SweetenerMass, precision)
	m3 := formatFixed(b.FinalMass, precision)

	d := Derivation{
		Principles: []string{
			"Total mass balance: the mass that goes in equals the mass that comes out.",
			"Solids balance: the mass of solids that goes in equals the mass of solids that comes out.",
		},
		Equations: []string{
			"M1 + M2 = M3",
			"M1·X1 + M2·X2 = M3·X3",
			"M2 = M1·(X3 − X1) / (X2 − X3)",
		},
		Steps: []string{
			"M2 = " + m1 + "·(" + x3 + " − " + x1 + ") / (" + x2 + " − " + x3 + ") ≈ " + m2 + " kg",
			"M3 = M1 + M2 = " + m1 + " + " + m2 + " = " + m3 + " kg",
		},
	}
	if b.Dilution {
		d.Steps = append(d.Steps, "M2 < 0: the target is below the initial concentration, which implies dilution rather than adding sugar.")
	}
	return d
}

// Lines returns the derivation flattened in display order.
func (d Derivation) Lines() []string {
	out := make([]string, 0, len(d.Principles)+len(d.Equations)+len(d.Steps))
	out = append(out, d.Principles...)
	out = append(out, d.Equations...)
	out = append(out, d.Steps...)
	return out
}

func (d Derivation) String() string {
	var b strings.Builder
	for i, p := range d.Principles {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\nEquations:\n")
	for _, e := range d.Equations {
		b.WriteString("  ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString("\nWith your values:\n")
	for _, s := range d.Steps {
		b.WriteString("  ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMass renders a mass in kilograms with the given decimals.
func FormatMass(kg float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return formatFixed(kg, precision) + " kg"
}

func formatFixed(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if s == "-"+strconv.FormatFloat(0, 'f', precision, 64) {
		return s[1:]
	}
	return s
}

// formatPlain prints the shortest representation that round-trips.
func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
