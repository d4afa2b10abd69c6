package dto

// CreateInvoiceRequest is the public payment-request payload. The wallet is
// resolved by identification ID, not by an authenticated user.
type CreateInvoiceRequest struct {
	Amount              float64 `json:"amount"`
	Memo                string  `json:"memo"`
	UnhashedDescription string  `json:"unhashed_description"`
	IdentificationID    string  `json:"identificationId"`
}

type CreateInvoiceResponse struct {
	PaymentRequest string `json:"payment_request"`
}
