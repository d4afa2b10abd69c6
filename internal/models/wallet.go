package models

// Wallet links a local user to their wallet on the custodial provider. The
// API key authenticates outbound provider calls on the user's behalf; the
// identification ID is a public handle used by the invoice endpoint.
type Wallet struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	WalletID         string `json:"walletId"`
	APIKey           string `json:"apiKey"`
	IdentificationID string `json:"identificationId"`
}
