package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lancer-be/internal/logger"
	"lancer-be/internal/mapper"
	"lancer-be/internal/metrics"
	"lancer-be/internal/payment"
	"lancer-be/internal/utils"
	"lancer-be/internal/wallet"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxRequestBytes = 16 << 10

type Handler struct {
	payments payment.Service
	wallets  wallet.Service
	metrics  *metrics.Webhook
}

func NewHandler(payments payment.Service, wallets wallet.Service, m *metrics.Webhook) *Handler {
	return &Handler{payments: payments, wallets: wallets, metrics: m}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// Checkout creates a pending top-up and returns the signed fields for a
// client that builds the gateway form itself.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	signed, ok := h.createCheckout(w, r, req)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusCreated, mapper.MapCheckout(signed))
}

// CheckoutForm creates a pending top-up and answers with an HTML page that
// posts the signed fields to the hosted checkout.
func (h *Handler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseForm(); err != nil {
		utils.WriteJSONError(w, "invalid form", http.StatusBadRequest)
		return
	}

	signed, ok := h.createCheckout(w, r, checkoutRequestFromForm(r.PostForm.Get))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := payment.RenderCheckoutForm(w, signed); err != nil {
		logger.FromCtx(r.Context()).Error("Failed to render checkout form", zap.Error(err))
	}
}

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request, req CheckoutRequest) (*payment.SignedCheckout, bool) {
	userID, ok := utils.AccountID(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	signed, err := h.payments.CreateCheckout(r.Context(), userID, req.Input())
	switch {
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidRequest),
		errors.Is(err, payment.ErrCurrencyMismatch):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	case err != nil:
		utils.WriteJSONError(w, "failed to create checkout", http.StatusInternalServerError)
		return nil, false
	}
	return signed, true
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.AccountID(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	p, err := h.payments.GetPayment(r.Context(), userID, chi.URLParam(r, "orderID"))
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("Failed to load payment", zap.Error(err))
		utils.WriteJSONError(w, "failed to load payment", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, mapper.MapPayment(p))
}

func (h *Handler) Wallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.AccountID(r.Context())
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			utils.WriteJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	log := logger.FromCtx(r.Context())
	balance, err := h.wallets.Balance(r.Context(), userID)
	if err != nil {
		log.Error("Failed to load wallet", zap.Error(err))
		utils.WriteJSONError(w, "failed to load wallet", http.StatusInternalServerError)
		return
	}
	txs, err := h.wallets.History(r.Context(), userID, limit)
	if err != nil {
		log.Error("Failed to load wallet history", zap.Error(err))
		utils.WriteJSONError(w, "failed to load wallet", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, mapper.MapWallet(balance, txs))
}
