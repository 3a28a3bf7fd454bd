package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
)

// BalancePath is the API route served by brixcalc serve.
const BalancePath = "/api/v1/balance"

// BuildBalanceRequest builds the POST request that computes in on the server
// at baseURL. A non-empty policy is sent with the inputs.
func BuildBalanceRequest(ctx context.Context, baseURL string, in domain.Inputs, policy domain.DilutionPolicy) (*http.Request, error) {
	target, err := balanceURL(baseURL)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(apiwire.NewBalanceRequest(in, policy))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: baseURL,
			Err:  err,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func balanceURL(baseURL string) (string, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return "", &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: raw,
			Err:  domain.ErrInvalidConfig,
		}
	}

	u.Path = strings.TrimRight(u.Path, "/") + BalancePath
	u.RawQuery = ""
	return u.String(), nil
}
