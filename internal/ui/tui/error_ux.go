package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/brixcalc/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

var fieldLabels = map[string]string{
	"initial_mass_kg": "Initial mass",
	"initial_brix":    "Initial °Brix",
	"target_brix":     "Target °Brix",
	"sweetener_brix":  "Sweetener °Brix",
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindInvalidInput:
			return fieldLabel(oe.Field) + " " + invalidReason(oe)

		case domain.KindInfeasible:
			return "Target °Brix must be lower than the sweetener's °Brix"

		case domain.KindDilution:
			return "Target °Brix is below the initial °Brix (dilution is disabled)"

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "workspacefinder") {
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			if oe.Field != "" {
				return "Invalid config: " + oe.Field
			}
			return "Invalid config"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func fieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	if field == "" {
		return "Input"
	}
	return field
}

// invalidReason strips the field name and sentinel from a validation error:
// "initial_brix must be within [0, 100]: invalid input" -> "must be within [0, 100]".
func invalidReason(oe *domain.OpError) string {
	if oe.Err == nil {
		return "is invalid"
	}
	s := oe.Err.Error()
	s = strings.TrimPrefix(s, oe.Field+" ")
	s = strings.TrimSuffix(s, ": "+domain.ErrInvalidInput.Error())
	s = strings.TrimSpace(s)
	if s == "" || s == domain.ErrInvalidInput.Error() {
		return "is invalid"
	}
	return s
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
