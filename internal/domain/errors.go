package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInfeasible    = errors.New("target concentration must be less than sweetener concentration")
	ErrDilution      = errors.New("target concentration is below the initial concentration")
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
	ErrExecution     = errors.New("execution error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "invalid_input"
	KindInfeasible    ErrorKind = "infeasible"
	KindDilution      ErrorKind = "dilution"
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindExecution     ErrorKind = "execution"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op    string
	Kind  ErrorKind
	Path  string // Optional: relevant file path
	Field string // Optional: offending input or config field
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the outermost OpError in the chain, or "" if none.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// IsUserError reports whether err is recoverable by asking for different inputs.
func IsUserError(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindInfeasible, KindDilution:
		return true
	}
	return false
}
