package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/brixcalc/internal/domain"
)

// Select evaluates JSONPath expressions against a JSON document and returns
// one rendered value per expression, in order.
//
// Policy:
// - If body is not JSON, every expression fails.
// - The first failing expression stops evaluation.
func Select(body []byte, exprs []string) ([]string, error) {
	if len(exprs) == 0 {
		return []string{}, nil
	}

	doc, err := parseJSON(body)
	if err != nil {
		return nil, queryError("", fmt.Errorf("document is not valid JSON: %w", err))
	}

	out := make([]string, 0, len(exprs))
	for _, raw := range exprs {
		expr := strings.TrimSpace(raw)
		if expr == "" {
			return nil, queryError(raw, fmt.Errorf("empty jsonpath expression"))
		}

		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			return nil, queryError(expr, fmt.Errorf("jsonpath error: %w", getErr))
		}
		if isEmptyValue(val) {
			return nil, queryError(expr, fmt.Errorf("no value found"))
		}

		s, convErr := toString(val)
		if convErr != nil {
			return nil, queryError(expr, fmt.Errorf("cannot convert value to string: %w", convErr))
		}
		out = append(out, s)
	}
	return out, nil
}

// SelectValue marshals v and runs Select on the result.
func SelectValue(v any, exprs []string) ([]string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, queryError("", err)
	}
	return Select(body, exprs)
}

func queryError(expr string, err error) error {
	return &domain.OpError{
		Op:    "extract.select",
		Kind:  domain.KindInvalidInput,
		Field: expr,
		Err:   fmt.Errorf("%w: %w", domain.ErrInvalidInput, err),
	}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// jsonpath wildcards return a slice; a single match prints as a scalar
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return fmt.Sprint(t), nil
	case bool:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}
