package mapper

import (
	"time"

	"lancer-be/internal/payment"
	"lancer-be/internal/wallet"
)

type CheckoutResponse struct {
	OrderID   string            `json:"order_id"`
	Amount    string            `json:"amount"`
	Currency  string            `json:"currency"`
	ActionURL string            `json:"action_url"`
	Fields    map[string]string `json:"fields"`
}

type PaymentResponse struct {
	OrderID          string    `json:"order_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Method           string    `json:"method,omitempty"`
	StatusMessage    string    `json:"status_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TransactionResponse struct {
	ID        int64     `json:"id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Kind      string    `json:"kind"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

type WalletResponse struct {
	Balance      string                `json:"balance"`
	Currency     string                `json:"currency"`
	Transactions []TransactionResponse `json:"transactions"`
}

func MapCheckout(c *payment.SignedCheckout) CheckoutResponse {
	values := c.Fields()
	fields := make(map[string]string, len(values))
	for k := range values {
		fields[k] = values.Get(k)
	}

	return CheckoutResponse{
		OrderID:   c.Request.OrderID,
		Amount:    c.Amount,
		Currency:  c.Request.Currency,
		ActionURL: c.ActionURL,
		Fields:    fields,
	}
}

func MapPayment(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		OrderID:          p.OrderID,
		Amount:           p.Amount.StringFixed(2),
		Currency:         p.Currency,
		Status:           string(p.Status),
		GatewayPaymentID: p.GatewayPaymentID,
		Method:           p.Method,
		StatusMessage:    p.StatusMessage,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func MapTransactions(txs []wallet.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		res = append(res, TransactionResponse{
			ID:        t.ID,
			Amount:    t.Amount.StringFixed(2),
			Currency:  t.Currency,
			Kind:      string(t.Kind),
			Reference: t.Reference,
			CreatedAt: t.CreatedAt,
		})
	}
	return res
}

func MapWallet(w *wallet.Wallet, txs []wallet.Transaction) WalletResponse {
	return WalletResponse{
		Balance:      w.Balance.StringFixed(2),
		Currency:     w.Currency,
		Transactions: MapTransactions(txs),
	}
}
