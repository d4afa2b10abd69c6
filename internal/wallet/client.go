// Package wallet is the HTTP client for the external custodial wallet
// provider. Every call authenticates with the per-wallet API key and is
// bounded by the client timeout; provider failures surface as UpstreamError
// so handlers can pass the provider's status and detail through.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// UpstreamError carries a provider non-2xx response back to the handler
// boundary, where its status and detail are returned to the client verbatim.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("wallet provider: status %d: %s", e.Status, e.Detail)
}

// Balance is the provider's wallet summary. The balance is denominated in
// millisatoshis.
type Balance struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// Extra holds the fiat conversion fields the provider attaches to a
// transaction. The fiat amount can appear in either of two locations.
type Extra struct {
	FiatCurrency       string   `json:"fiat_currency,omitempty"`
	FiatRate           float64  `json:"fiat_rate,omitempty"`
	FiatAmount         *float64 `json:"fiat_amount,omitempty"`
	WalletFiatCurrency string   `json:"wallet_fiat_currency,omitempty"`
	WalletFiatRate     float64  `json:"wallet_fiat_rate,omitempty"`
	WalletFiatAmount   *float64 `json:"wallet_fiat_amount,omitempty"`
}

// Transaction is the provider's raw payment record, fetched per request and
// never persisted locally.
type Transaction struct {
	Status        string `json:"status"`
	Pending       bool   `json:"pending"`
	Out           bool   `json:"out"`
	CheckingID    string `json:"checking_id"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	Memo          string `json:"memo"`
	Time          int64  `json:"time"`
	Bolt11        string `json:"bolt11"`
	Preimage      string `json:"preimage"`
	PaymentHash   string `json:"payment_hash"`
	Expiry        int64  `json:"expiry"`
	Extra         *Extra `json:"extra"`
	WalletID      string `json:"wallet_id"`
	Webhook       string `json:"webhook"`
	WebhookStatus string `json:"webhook_status"`
}

// HistoryEntry is one row of the provider's pre-grouped payment history.
type HistoryEntry struct {
	Date     string  `json:"date"`
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
	Balance  float64 `json:"balance"`
}

// InvoiceRequest is the provider payload for creating an incoming invoice.
type InvoiceRequest struct {
	Out                 bool    `json:"out"`
	Amount              float64 `json:"amount"`
	Memo                string  `json:"memo"`
	Unit                string  `json:"unit"`
	UnhashedDescription string  `json:"unhashed_description,omitempty"`
}

// Invoice is the provider's response to invoice creation.
type Invoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
}

// Client talks to the wallet provider API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a provider client rooted at baseURL with a bounded
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetWallet fetches the wallet summary for the API key's wallet.
func (c *Client) GetWallet(ctx context.Context, apiKey string) (Balance, error) {
	var out Balance
	err := c.do(ctx, http.MethodGet, "/wallet", apiKey, nil, &out, "failed to fetch wallet")
	return out, err
}

// Payments fetches the raw transaction list for a wallet.
func (c *Client) Payments(ctx context.Context, apiKey, walletID string) ([]Transaction, error) {
	path := "/payments?wallet=" + url.QueryEscape(walletID)
	var out []Transaction
	err := c.do(ctx, http.MethodGet, path, apiKey, nil, &out, "failed to fetch payments")
	return out, err
}

// PaymentHistory fetches the provider's grouped history. The provider has no
// native weekly grouping, so "week" is not forwarded; that window is computed
// locally by the caller.
func (c *Client) PaymentHistory(ctx context.Context, apiKey, walletID, groupBy string) ([]HistoryEntry, error) {
	path := "/payments/history?wallet=" + url.QueryEscape(walletID)
	if groupBy != "" && groupBy != "week" {
		path += "&group=" + url.QueryEscape(groupBy)
	}
	var out []HistoryEntry
	err := c.do(ctx, http.MethodGet, path, apiKey, nil, &out, "failed to fetch payments")
	return out, err
}

// CreateInvoice asks the provider to create an incoming invoice.
func (c *Client) CreateInvoice(ctx context.Context, apiKey string, inv InvoiceRequest) (Invoice, error) {
	var out Invoice
	err := c.do(ctx, http.MethodPost, "/payments", apiKey, inv, &out, "error creating invoice")
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, payload, out any, fallback string) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call wallet provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &UpstreamError{Status: resp.StatusCode, Detail: errorDetail(raw, fallback)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// errorDetail pulls the provider's detail message out of an error body,
// falling back to a generic message when it is absent or unparseable.
func errorDetail(raw []byte, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}
