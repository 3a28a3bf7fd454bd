package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderResult(t Theme, b domain.Balance, precision int) string {
	var sb strings.Builder
	sb.WriteString("Sugar to add: ")
	sb.WriteString(t.Result.Render(domain.FormatMass(b.SweetenerMass, precision)))
	sb.WriteString("\nFinal mass:   ")
	sb.WriteString(t.Result.Render(domain.FormatMass(b.FinalMass, precision)))
	if b.Dilution {
		sb.WriteString("\n\n")
		sb.WriteString(t.Warning.Render("⚠ " + apiwire.DilutionWarning))
	}
	return sb.String()
}

func renderDerivation(t Theme, d domain.Derivation, width int) string {
	var sb strings.Builder
	sb.WriteString(t.Title.Render("How it is calculated"))
	sb.WriteString("\n\n")
	for i, p := range d.Principles {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for _, e := range d.Equations {
		sb.WriteString("  ")
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	sb.WriteString("\nWith your values:\n")
	for _, s := range d.Steps {
		sb.WriteString("  ")
		if width > 8 {
			s = clampString(s, width-8)
		}
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
