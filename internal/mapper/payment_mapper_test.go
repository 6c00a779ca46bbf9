package mapper

import (
	"testing"
	"time"

	"lancer-be/internal/payment"
	"lancer-be/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMapCheckout(t *testing.T) {
	c := &payment.SignedCheckout{
		Request: payment.PaymentRequest{
			MerchantID: "M1",
			OrderID:    "ORDER1",
			Amount:     decimal.NewFromInt(100),
			Currency:   "LKR",
			Items:      "Wallet top-up",
		},
		Amount:    "100.00",
		Signature: "AA3E58251426DAC4CE8FC770E830F1BE",
		ActionURL: "https://sandbox.payhere.lk/pay/checkout",
	}

	res := MapCheckout(c)

	assert.Equal(t, "ORDER1", res.OrderID)
	assert.Equal(t, "100.00", res.Amount)
	assert.Equal(t, "LKR", res.Currency)
	assert.Equal(t, "https://sandbox.payhere.lk/pay/checkout", res.ActionURL)
	assert.Equal(t, "AA3E58251426DAC4CE8FC770E830F1BE", res.Fields["hash"])
	assert.Equal(t, "M1", res.Fields["merchant_id"])
	assert.Equal(t, "100.00", res.Fields["amount"])
}

func TestMapPayment(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &payment.Payment{
		OrderID:   "ORDER1",
		Amount:    decimal.RequireFromString("1500.5"),
		Currency:  "LKR",
		Status:    payment.StatusPaid,
		Method:    "VISA",
		CreatedAt: now,
		UpdatedAt: now,
	}

	res := MapPayment(p)

	assert.Equal(t, "1500.50", res.Amount)
	assert.Equal(t, "PAID", res.Status)
	assert.Equal(t, "VISA", res.Method)
	assert.Equal(t, now, res.CreatedAt)
}

func TestMapWallet(t *testing.T) {
	w := &wallet.Wallet{UserID: 1, Balance: decimal.NewFromInt(250), Currency: "LKR"}

	t.Run("Empty History", func(t *testing.T) {
		res := MapWallet(w, nil)
		assert.Equal(t, "250.00", res.Balance)
		assert.NotNil(t, res.Transactions)
		assert.Empty(t, res.Transactions)
	})

	t.Run("With History", func(t *testing.T) {
		txs := []wallet.Transaction{
			{ID: 2, Amount: decimal.NewFromInt(200), Currency: "LKR", Kind: wallet.KindTopUp, Reference: "WLT-2"},
			{ID: 1, Amount: decimal.NewFromInt(50), Currency: "LKR", Kind: wallet.KindTopUp, Reference: "WLT-1"},
		}
		res := MapWallet(w, txs)
		assert.Len(t, res.Transactions, 2)
		assert.Equal(t, "200.00", res.Transactions[0].Amount)
		assert.Equal(t, "TOPUP", res.Transactions[0].Kind)
		assert.Equal(t, "WLT-1", res.Transactions[1].Reference)
	})
}
