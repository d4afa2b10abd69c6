package payments

import (
	"time"

	"github.com/satbase/admin-be/internal/wallet"
)

const (
	incomeStyle  = "text-green-600"
	expenseStyle = "text-red-500"
)

// FormattedTransaction is the client-facing view of a settled payment.
type FormattedTransaction struct {
	Memo   string  `json:"memo"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
}

// FormatTransactions keeps settled transactions in their input order and
// resolves each display amount from the fiat fields: fiat_amount first, then
// wallet_fiat_amount, then zero.
func FormatTransactions(txs []wallet.Transaction) []FormattedTransaction {
	out := make([]FormattedTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Status != "success" {
			continue
		}

		var amount float64
		switch {
		case tx.Extra != nil && tx.Extra.FiatAmount != nil:
			amount = *tx.Extra.FiatAmount
		case tx.Extra != nil && tx.Extra.WalletFiatAmount != nil:
			amount = *tx.Extra.WalletFiatAmount
		}

		memo := tx.Memo
		if memo == "" {
			memo = "No Description"
		}

		color := expenseStyle
		if amount > 0 {
			color = incomeStyle
		}

		out = append(out, FormattedTransaction{
			Memo:   memo,
			Date:   time.Unix(tx.Time, 0).Format("1/2/2006, 3:04:05 PM"),
			Amount: amount,
			Color:  color,
		})
	}
	return out
}
