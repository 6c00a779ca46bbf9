package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusPaid        Status = "PAID"
	StatusFailed      Status = "FAILED"
	StatusCancelled   Status = "CANCELLED"
	StatusChargedBack Status = "CHARGEDBACK"
)

// Gateway status codes carried in the status_code notification field.
const (
	CodeSuccess     = "2"
	CodePending     = "0"
	CodeCancelled   = "-1"
	CodeFailed      = "-2"
	CodeChargedBack = "-3"
)

// StatusFromCode maps a gateway status code to a payment status.
func StatusFromCode(code string) (Status, bool) {
	switch strings.TrimSpace(code) {
	case CodeSuccess:
		return StatusPaid, true
	case CodePending:
		return StatusPending, true
	case CodeCancelled:
		return StatusCancelled, true
	case CodeFailed:
		return StatusFailed, true
	case CodeChargedBack:
		return StatusChargedBack, true
	}
	return "", false
}

type Payment struct {
	ID               uint
	OrderID          string
	UserID           uint
	Amount           decimal.Decimal
	Currency         string
	Status           Status
	GatewayPaymentID string
	Method           string
	StatusMessage    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

// CallbackURLs are the merchant pages and webhook the gateway redirects to.
type CallbackURLs struct {
	ReturnURL string
	CancelURL string
	NotifyURL string
}

// PaymentRequest is an outbound checkout request. Treat it as immutable once
// signed.
type PaymentRequest struct {
	MerchantID string
	OrderID    string
	Amount     decimal.Decimal
	Currency   string
	Items      string
	Customer   Customer
	URLs       CallbackURLs
}

func (r PaymentRequest) validate() error {
	var missing []string
	if r.MerchantID == "" {
		missing = append(missing, "merchant_id")
	}
	if r.OrderID == "" {
		missing = append(missing, "order_id")
	}
	if len(r.Currency) != 3 {
		missing = append(missing, "currency")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing or malformed %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

// InboundNotification is a payment status notification posted by the
// gateway. Amount is kept as the exact string received since it is part of
// the signed payload.
type InboundNotification struct {
	MerchantID        string
	OrderID           string
	PaymentID         string
	Amount            string
	Currency          string
	StatusCode        string
	StatusMessage     string
	Method            string
	ProvidedSignature string
}
