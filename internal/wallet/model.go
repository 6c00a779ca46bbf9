package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrAlreadyCredited  = errors.New("reference already credited")
	ErrCurrencyMismatch = errors.New("wallet currency mismatch")
	ErrInvalidAmount    = errors.New("credit amount must be positive")
)

type TransactionKind string

const KindTopUp TransactionKind = "TOPUP"

type Wallet struct {
	UserID    uint
	Balance   decimal.Decimal
	Currency  string
	UpdatedAt time.Time
}

type Transaction struct {
	ID        int64
	UserID    uint
	Amount    decimal.Decimal
	Currency  string
	Kind      TransactionKind
	Reference string
	CreatedAt time.Time
}
