package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/ports"
)

// Outcome labels reported to a BalanceRecorder.
const (
	OutcomeOK           = "ok"
	OutcomeDilution     = "dilution"
	OutcomeInfeasible   = "infeasible"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

type ComputeBalance struct {
	calc     ports.BalanceCalculator
	recorder ports.BalanceRecorder
	log      *slog.Logger
	now      func() time.Time
}

type ComputeOption func(*ComputeBalance)

func WithRecorder(r ports.BalanceRecorder) ComputeOption {
	return func(uc *ComputeBalance) { uc.recorder = r }
}

func WithLogger(l *slog.Logger) ComputeOption {
	return func(uc *ComputeBalance) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) ComputeOption {
	return func(uc *ComputeBalance) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewComputeBalance(calc ports.BalanceCalculator, opts ...ComputeOption) *ComputeBalance {
	uc := &ComputeBalance{
		calc: calc,
		log:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute solves the mass balance for in. Infeasible or invalid inputs are
// returned as domain errors; the caller is expected to ask for new values.
func (uc *ComputeBalance) Execute(ctx context.Context, in domain.Inputs) (domain.Balance, error) {
	if err := ctx.Err(); err != nil {
		return domain.Balance{}, err
	}

	start := uc.now()
	b, err := uc.calc.Compute(ctx, in)
	elapsed := uc.now().Sub(start)

	outcome := classify(b, err)
	if uc.recorder != nil {
		uc.recorder.Observe(outcome, elapsed)
	}

	switch outcome {
	case OutcomeOK, OutcomeDilution:
		uc.log.Debug("balance.computed",
			"initial_mass_kg", in.InitialMass,
			"initial_brix", in.InitialBrix,
			"target_brix", in.TargetBrix,
			"sweetener_brix", in.SweetenerBrix,
			"sweetener_mass_kg", b.SweetenerMass,
			"final_mass_kg", b.FinalMass,
			"dilution", b.Dilution,
		)
	case OutcomeError:
		uc.log.Error("balance.failed", "err", err)
	default:
		uc.log.Warn("balance.rejected", "outcome", outcome, "err", err)
	}

	return b, err
}

func classify(b domain.Balance, err error) string {
	if err == nil {
		if b.Dilution {
			return OutcomeDilution
		}
		return OutcomeOK
	}
	switch domain.KindOf(err) {
	case domain.KindInfeasible:
		return OutcomeInfeasible
	case domain.KindDilution:
		return OutcomeDilution
	case domain.KindInvalidInput:
		return OutcomeInvalidInput
	default:
		return OutcomeError
	}
}

// LocalCalculator adapts a domain.Calculator to ports.BalanceCalculator.
type LocalCalculator struct {
	calc *domain.Calculator
}

func NewLocalCalculator(c *domain.Calculator) *LocalCalculator {
	if c == nil {
		c = domain.NewCalculator()
	}
	return &LocalCalculator{calc: c}
}

var _ ports.BalanceCalculator = (*LocalCalculator)(nil)

func (l *LocalCalculator) Compute(_ context.Context, in domain.Inputs) (domain.Balance, error) {
	return l.calc.Compute(in)
}
