package ports

import (
	"context"

	"github.com/aalvaropc/brixcalc/internal/domain"
)

// BalanceCalculator solves a mass balance, locally or through a remote service.
type BalanceCalculator interface {
	Compute(ctx context.Context, in domain.Inputs) (domain.Balance, error)
}
