package handlers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/satbase/admin-be/internal/http/respond"
	"github.com/satbase/admin-be/internal/middleware"
	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/models/dto"
	"github.com/satbase/admin-be/internal/payments"
	"github.com/satbase/admin-be/internal/storage"
	"github.com/satbase/admin-be/internal/wallet"
)

// PaymentsHandler proxies balance and payment queries to the wallet
// provider. SUPER_ADMIN routes address any user by id; the "my-" variants
// resolve the wallet from the caller's verified claims.
type PaymentsHandler struct {
	wallets  storage.WalletStore
	provider *wallet.Client
	rates    payments.RateService
	guard    *middleware.Guard
}

// NewPaymentsHandler constructs the handler.
func NewPaymentsHandler(wallets storage.WalletStore, provider *wallet.Client, rates payments.RateService, guard *middleware.Guard) *PaymentsHandler {
	return &PaymentsHandler{wallets: wallets, provider: provider, rates: rates, guard: guard}
}

// Register attaches payment routes to the mux. /payment-request is
// deliberately unauthenticated: it is the public invoice generator and
// resolves the wallet by identification ID alone.
func (h *PaymentsHandler) Register(mux *http.ServeMux) {
	super := models.RoleSuperAdmin
	admin := models.RoleAdmin
	mux.HandleFunc("GET /api/wallet/{userId}", h.guard.Require(h.forUser(h.writeBalance), super))
	mux.HandleFunc("GET /api/my-wallet", h.guard.Require(h.forSelf(h.writeBalance), admin))
	mux.HandleFunc("GET /api/payment-history/{userId}", h.guard.Require(h.forUser(h.writeHistory), super))
	mux.HandleFunc("GET /api/my-payment-history", h.guard.Require(h.forSelf(h.writeHistory), admin))
	mux.HandleFunc("GET /api/payment-list/{userId}", h.guard.Require(h.forUser(h.writeList), super))
	mux.HandleFunc("GET /api/my-payment-list", h.guard.Require(h.forSelf(h.writeList), admin))
	mux.HandleFunc("POST /api/payment-request", h.handlePaymentRequest)
}

type walletFunc func(w http.ResponseWriter, r *http.Request, wal models.Wallet)

// forUser resolves the wallet of the user addressed in the path.
func (h *PaymentsHandler) forUser(next walletFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUserID(w, r)
		if !ok {
			return
		}
		h.withWallet(w, r, id, next)
	}
}

// forSelf resolves the caller's own wallet from verified claims.
func (h *PaymentsHandler) forSelf(next walletFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.ClaimsFrom(r.Context())
		h.withWallet(w, r, claims.UserID, next)
	}
}

func (h *PaymentsHandler) withWallet(w http.ResponseWriter, r *http.Request, userID int64, next walletFunc) {
	wal, err := h.wallets.WalletByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "wallet not found for the user")
			return
		}
		log.Printf("fetch wallet for user %d: %v", userID, err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	next(w, r, wal)
}

func (h *PaymentsHandler) writeBalance(w http.ResponseWriter, r *http.Request, wal models.Wallet) {
	bal, err := h.provider.GetWallet(r.Context(), wal.APIKey)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	display, err := payments.ConvertBalance(r.Context(), h.rates, bal.Balance)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, display)
}

func (h *PaymentsHandler) writeHistory(w http.ResponseWriter, r *http.Request, wal models.Wallet) {
	group := r.URL.Query().Get("group")
	entries, err := h.provider.PaymentHistory(r.Context(), wal.APIKey, wal.WalletID, group)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments.GroupHistory(entries, group, time.Now()))
}

func (h *PaymentsHandler) writeList(w http.ResponseWriter, r *http.Request, wal models.Wallet) {
	txs, err := h.provider.Payments(r.Context(), wal.APIKey, wal.WalletID)
	if err != nil {
		writeProviderError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments.FormatTransactions(txs))
}

func (h *PaymentsHandler) handlePaymentRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Amount <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid or missing 'amount'")
		return
	}
	if strings.TrimSpace(req.Memo) == "" {
		respond.Error(w, http.StatusBadRequest, "invalid or missing 'memo'")
		return
	}
	if strings.TrimSpace(req.UnhashedDescription) == "" {
		respond.Error(w, http.StatusBadRequest, "invalid or missing 'unhashed_description'")
		return
	}
	if strings.TrimSpace(req.IdentificationID) == "" {
		respond.Error(w, http.StatusBadRequest, "invalid or missing 'identificationId'")
		return
	}

	wal, err := h.wallets.WalletByIdentificationID(r.Context(), req.IdentificationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "wallet not found for the given identificationId")
			return
		}
		log.Printf("fetch wallet for identification id: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	invoice, err := h.provider.CreateInvoice(r.Context(), wal.APIKey, wallet.InvoiceRequest{
		Out:                 false,
		Amount:              req.Amount,
		Memo:                req.Memo,
		Unit:                "USD",
		UnhashedDescription: hex.EncodeToString([]byte(req.UnhashedDescription)),
	})
	if err != nil {
		writeProviderError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.CreateInvoiceResponse{PaymentRequest: invoice.PaymentRequest})
}

// writeProviderError passes an upstream status and detail through to the
// client; anything else is a generic 500 with the detail logged server-side.
func writeProviderError(w http.ResponseWriter, err error) {
	var upstream *wallet.UpstreamError
	if errors.As(err, &upstream) {
		respond.Error(w, upstream.Status, upstream.Detail)
		return
	}
	log.Printf("wallet provider: %v", err)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}
