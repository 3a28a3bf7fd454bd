package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
	"github.com/aalvaropc/brixcalc/internal/ports"
)

// RemoteCalculator computes balances through a running brixcalc server.
// Domain errors reported by the server come back with the same kinds as a
// local computation.
type RemoteCalculator struct {
	baseURL  string
	dilution domain.DilutionPolicy
	exec     *Executor
}

var _ ports.BalanceCalculator = (*RemoteCalculator)(nil)

func NewRemoteCalculator(baseURL string, opts ...ExecutorOption) *RemoteCalculator {
	return &RemoteCalculator{
		baseURL: baseURL,
		exec:    NewExecutor(opts...),
	}
}

// WithDilutionPolicy makes the server apply p instead of its configured policy.
func (c *RemoteCalculator) WithDilutionPolicy(p domain.DilutionPolicy) *RemoteCalculator {
	c.dilution = p
	return c
}

func (c *RemoteCalculator) Compute(ctx context.Context, in domain.Inputs) (domain.Balance, error) {
	req, err := BuildBalanceRequest(ctx, c.baseURL, in, c.dilution)
	if err != nil {
		return domain.Balance{}, err
	}

	res, err := c.exec.Do(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Balance{}, ctxErr
		}
		return domain.Balance{}, &domain.OpError{
			Op:   "httpclient.compute",
			Kind: domain.KindExecution,
			Path: c.baseURL,
			Err:  err,
		}
	}

	if res.Status == http.StatusOK {
		var body apiwire.BalanceResponse
		if err := json.Unmarshal(res.BodyBytes, &body); err != nil {
			return domain.Balance{}, &domain.OpError{
				Op:   "httpclient.decode",
				Kind: domain.KindExecution,
				Path: c.baseURL,
				Err:  err,
			}
		}
		return body.ToDomain(), nil
	}

	var body apiwire.ErrorResponse
	if err := json.Unmarshal(res.BodyBytes, &body); err != nil || body.Error.Kind == "" {
		return domain.Balance{}, &domain.OpError{
			Op:   "httpclient.compute",
			Kind: domain.KindExecution,
			Path: c.baseURL,
			Err:  fmt.Errorf("unexpected status %d: %w", res.Status, domain.ErrExecution),
		}
	}
	return domain.Balance{}, body.Error.ToError("httpclient.compute")
}
