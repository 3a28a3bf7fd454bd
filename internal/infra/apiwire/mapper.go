package apiwire

import (
	"errors"
	"fmt"

	"github.com/aalvaropc/brixcalc/internal/domain"
)

// DilutionWarning is shown next to a negative sugar amount.
const DilutionWarning = "target is below the initial concentration; a negative amount implies dilution, not sugar addition"

// MapRequest converts a request body to domain Inputs. A missing
// sweetener_brix falls back to defaultSweetener.
func MapRequest(req BalanceRequest, defaultSweetener float64) (domain.Inputs, error) {
	if req.InitialMass == nil {
		return domain.Inputs{}, missingField("initial_mass_kg")
	}
	if req.InitialBrix == nil {
		return domain.Inputs{}, missingField("initial_brix")
	}
	if req.TargetBrix == nil {
		return domain.Inputs{}, missingField("target_brix")
	}

	in := domain.Inputs{
		InitialMass:   *req.InitialMass,
		InitialBrix:   *req.InitialBrix,
		TargetBrix:    *req.TargetBrix,
		SweetenerBrix: defaultSweetener,
	}
	if req.SweetenerBrix != nil {
		in.SweetenerBrix = *req.SweetenerBrix
	}
	return in, nil
}

// MapDilution converts the optional dilution field. ok is false when the
// request leaves the server's policy in place.
func MapDilution(req BalanceRequest) (p domain.DilutionPolicy, ok bool, err error) {
	if req.Dilution == "" {
		return "", false, nil
	}
	p, err = domain.ParseDilutionPolicy(req.Dilution)
	if err != nil {
		return "", false, &domain.OpError{
			Op:    "apiwire.map",
			Kind:  domain.KindInvalidInput,
			Field: "dilution",
			Err:   fmt.Errorf("%v: %w", err, domain.ErrInvalidInput),
		}
	}
	return p, true, nil
}

// NewBalanceRequest builds the request body for in. An empty policy is
// omitted so the server applies its own.
func NewBalanceRequest(in domain.Inputs, policy domain.DilutionPolicy) BalanceRequest {
	return BalanceRequest{
		InitialMass:   &in.InitialMass,
		InitialBrix:   &in.InitialBrix,
		TargetBrix:    &in.TargetBrix,
		SweetenerBrix: &in.SweetenerBrix,
		Dilution:      string(policy),
	}
}

// NewBalanceResponse renders b. The derivation is included when explain is set.
func NewBalanceResponse(b domain.Balance, precision int, explain bool) BalanceResponse {
	resp := BalanceResponse{
		Inputs: InputsDTO{
			InitialMass:   b.Inputs.InitialMass,
			InitialBrix:   b.Inputs.InitialBrix,
			TargetBrix:    b.Inputs.TargetBrix,
			SweetenerBrix: b.Inputs.SweetenerBrix,
		},
		SweetenerMass: b.SweetenerMass,
		FinalMass:     b.FinalMass,
		Dilution:      b.Dilution,
		Display: DisplayDTO{
			SweetenerMass: domain.FormatMass(b.SweetenerMass, precision),
			FinalMass:     domain.FormatMass(b.FinalMass, precision),
		},
	}
	if b.Dilution {
		resp.Warning = DilutionWarning
	}
	if explain {
		resp.Derivation = domain.Explain(b, precision).Lines()
	}
	return resp
}

// ToDomain maps a response back to a domain Balance.
func (r BalanceResponse) ToDomain() domain.Balance {
	return domain.Balance{
		Inputs: domain.Inputs{
			InitialMass:   r.Inputs.InitialMass,
			InitialBrix:   r.Inputs.InitialBrix,
			TargetBrix:    r.Inputs.TargetBrix,
			SweetenerBrix: r.Inputs.SweetenerBrix,
		},
		SweetenerMass: r.SweetenerMass,
		FinalMass:     r.FinalMass,
		Dilution:      r.Dilution,
	}
}

// NewErrorResponse renders err for API clients.
func NewErrorResponse(err error) ErrorResponse {
	body := ErrorBody{
		Kind:    string(domain.KindExecution),
		Message: "internal error",
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		body.Kind = string(oe.Kind)
		body.Field = oe.Field
		if domain.IsUserError(err) && oe.Err != nil {
			body.Message = oe.Err.Error()
		}
	}
	return ErrorResponse{Error: body}
}

// ToError maps an error body back to a domain error so callers can classify
// remote failures with domain.IsKind and errors.Is.
func (e ErrorBody) ToError(op string) error {
	kind := domain.ErrorKind(e.Kind)
	if kind == "" {
		kind = domain.KindExecution
	}

	var sentinel error
	switch kind {
	case domain.KindInvalidInput:
		sentinel = domain.ErrInvalidInput
	case domain.KindInfeasible:
		sentinel = domain.ErrInfeasible
	case domain.KindDilution:
		sentinel = domain.ErrDilution
	case domain.KindInvalidConfig:
		sentinel = domain.ErrInvalidConfig
	case domain.KindNotFound:
		sentinel = domain.ErrNotFound
	default:
		sentinel = domain.ErrExecution
	}

	err := sentinel
	if e.Message != "" && e.Message != sentinel.Error() {
		err = fmt.Errorf("%s: %w", e.Message, sentinel)
	}
	return &domain.OpError{
		Op:    op,
		Kind:  kind,
		Field: e.Field,
		Err:   err,
	}
}

func missingField(field string) error {
	return &domain.OpError{
		Op:    "apiwire.map",
		Kind:  domain.KindInvalidInput,
		Field: field,
		Err:   fmt.Errorf("%s is required: %w", field, domain.ErrInvalidInput),
	}
}
