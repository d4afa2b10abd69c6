package wallet

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RateClient converts satoshi amounts to US dollars via the provider's
// conversion endpoint. A lookup failure propagates to the caller; a balance
// is never silently reported as zero.
type RateClient struct {
	client *Client
}

// NewRateClient creates a rate client against the provider base URL.
func NewRateClient(baseURL string, timeout time.Duration) *RateClient {
	return &RateClient{client: NewClient(baseURL, timeout)}
}

type conversionRequest struct {
	From   string  `json:"from_"`
	Amount float64 `json:"amount"`
	To     string  `json:"to"`
}

type conversionResponse struct {
	USD float64 `json:"USD"`
}

// SatsToUSD returns the US dollar value of the satoshi amount at the
// provider's current rate.
func (r *RateClient) SatsToUSD(ctx context.Context, sats float64) (float64, error) {
	payload := conversionRequest{From: "sat", Amount: sats, To: "usd"}
	var out conversionResponse
	err := r.client.do(ctx, http.MethodPost, "/conversion", "", payload, &out, "failed to fetch conversion rate")
	if err != nil {
		return 0, fmt.Errorf("sats to usd: %w", err)
	}
	return out.USD, nil
}
