package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetWallet(ctx context.Context, userID uint) (*Wallet, error) {
	args := m.Called(ctx, userID)
	w, _ := args.Get(0).(*Wallet)
	return w, args.Error(1)
}

func (m *MockRepository) Credit(ctx context.Context, userID uint, amount decimal.Decimal, currency, reference string) error {
	return m.Called(ctx, userID, amount, currency, reference).Error(0)
}

func (m *MockRepository) ListTransactions(ctx context.Context, userID uint, limit int) ([]Transaction, error) {
	args := m.Called(ctx, userID, limit)
	txs, _ := args.Get(0).([]Transaction)
	return txs, args.Error(1)
}

func TestService_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing wallet", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, "LKR")
		repo.On("GetWallet", ctx, uint(7)).Return(&Wallet{UserID: 7, Balance: decimal.NewFromInt(10), Currency: "LKR"}, nil)

		w, err := svc.Balance(ctx, 7)
		assert.NoError(t, err)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(10)))
	})

	t.Run("No wallet yet", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, "LKR")
		repo.On("GetWallet", ctx, uint(8)).Return(nil, ErrWalletNotFound)

		w, err := svc.Balance(ctx, 8)
		assert.NoError(t, err)
		assert.True(t, w.Balance.IsZero())
		assert.Equal(t, "LKR", w.Currency)
	})

	t.Run("DB error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, "LKR")
		repo.On("GetWallet", ctx, uint(9)).Return(nil, errors.New("db down"))

		_, err := svc.Balance(ctx, 9)
		assert.Error(t, err)
	})
}

func TestService_TopUp(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("100.00")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Credit", ctx, uint(7), amount, "LKR", "ORDER1").Return(nil)

		assert.NoError(t, NewService(repo, "LKR").TopUp(ctx, 7, amount, "LKR", "ORDER1"))
		repo.AssertExpectations(t)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		repo := new(MockRepository)

		err := NewService(repo, "LKR").TopUp(ctx, 7, decimal.Zero, "LKR", "ORDER1")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		repo.AssertNotCalled(t, "Credit")
	})

	t.Run("Already credited", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Credit", ctx, uint(7), amount, "LKR", "ORDER1").Return(ErrAlreadyCredited)

		err := NewService(repo, "LKR").TopUp(ctx, 7, amount, "LKR", "ORDER1")
		assert.ErrorIs(t, err, ErrAlreadyCredited)
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, defaultHistoryLimit},
		{"custom", 5, 5},
		{"capped", 1000, maxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("ListTransactions", ctx, uint(7), tt.want).Return([]Transaction{}, nil)

			_, err := NewService(repo, "LKR").History(ctx, 7, tt.limit)
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
