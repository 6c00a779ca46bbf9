package wallet

import (
	"context"
	"errors"

	"lancer-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type Service interface {
	Balance(ctx context.Context, userID uint) (*Wallet, error)
	TopUp(ctx context.Context, userID uint, amount decimal.Decimal, currency, reference string) error
	History(ctx context.Context, userID uint, limit int) ([]Transaction, error)
}

type service struct {
	repo            Repository
	defaultCurrency string
}

func NewService(repo Repository, defaultCurrency string) Service {
	return &service{repo: repo, defaultCurrency: defaultCurrency}
}

// Balance returns the user's wallet; users who never topped up get an empty
// wallet in the default currency.
func (s *service) Balance(ctx context.Context, userID uint) (*Wallet, error) {
	w, err := s.repo.GetWallet(ctx, userID)
	if errors.Is(err, ErrWalletNotFound) {
		return &Wallet{UserID: userID, Balance: decimal.Zero, Currency: s.defaultCurrency}, nil
	}
	return w, err
}

func (s *service) TopUp(ctx context.Context, userID uint, amount decimal.Decimal, currency, reference string) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("user_id", userID),
		zap.String("reference", reference),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("currency", currency),
	)

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	err := s.repo.Credit(ctx, userID, amount, currency, reference)
	switch {
	case errors.Is(err, ErrAlreadyCredited):
		log.Info("Top-up already credited")
		return err
	case err != nil:
		log.Error("Failed to credit wallet", zap.Error(err))
		return err
	}

	log.Info("Wallet credited")
	return nil
}

func (s *service) History(ctx context.Context, userID uint, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListTransactions(ctx, userID, limit)
}
