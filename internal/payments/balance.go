package payments

import (
	"context"
	"fmt"
	"strconv"
)

const satsPerBTC = 100_000_000

// RateService converts a satoshi amount into US dollars. Implemented by
// wallet.RateClient; tests substitute a fixture.
type RateService interface {
	SatsToUSD(ctx context.Context, sats float64) (float64, error)
}

// DisplayBalance is the client-facing wallet balance: USD to three decimals,
// BTC to eight.
type DisplayBalance struct {
	Balance    string `json:"balance"`
	BTCBalance string `json:"btc_balance"`
}

// ConvertBalance turns a provider balance in millisatoshis into display
// units. A rate lookup failure fails the conversion; the balance is never
// silently reported as zero dollars.
func ConvertBalance(ctx context.Context, rates RateService, msats int64) (DisplayBalance, error) {
	sats := float64(msats) / 1000

	usd, err := rates.SatsToUSD(ctx, sats)
	if err != nil {
		return DisplayBalance{}, fmt.Errorf("convert balance: %w", err)
	}

	return DisplayBalance{
		Balance:    strconv.FormatFloat(usd, 'f', 3, 64),
		BTCBalance: strconv.FormatFloat(sats/satsPerBTC, 'f', 8, 64),
	}, nil
}
