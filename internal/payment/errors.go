package payment

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidRequest    = errors.New("invalid payment request")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrAmountMismatch    = errors.New("amount mismatch")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownHashCase   = errors.New("unknown hash case")
)
