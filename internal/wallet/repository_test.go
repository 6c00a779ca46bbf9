package wallet

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetWallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT user_id, balance, currency, updated_at\s+FROM wallets`).
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance", "currency", "updated_at"}).
				AddRow(7, "2500.50", "LKR", now))

		w, err := repo.GetWallet(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), w.UserID)
		assert.Equal(t, "2500.50", w.Balance.StringFixed(2))
		assert.Equal(t, "LKR", w.Currency)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`FROM wallets`).
			WithArgs(uint(8)).
			WillReturnError(sql.ErrNoRows)

		w, err := repo.GetWallet(context.Background(), 8)
		assert.Nil(t, w)
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Credit(t *testing.T) {
	amount := decimal.RequireFromString("100.00")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO wallet_transactions`).
			WithArgs(uint(7), amount, "LKR", "TOPUP", "ORDER1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec(`INSERT INTO wallets`).
			WithArgs(uint(7), amount, "LKR").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewRepository(db).Credit(context.Background(), 7, amount, "LKR", "ORDER1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyCredited", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO wallet_transactions`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err = NewRepository(db).Credit(context.Background(), 7, amount, "LKR", "ORDER1")
		assert.ErrorIs(t, err, ErrAlreadyCredited)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO wallet_transactions`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectExec(`INSERT INTO wallets`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = NewRepository(db).Credit(context.Background(), 7, amount, "USD", "ORDER2")
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err = NewRepository(db).Credit(context.Background(), 7, amount, "LKR", "ORDER3")
		assert.ErrorContains(t, err, "begin credit tx")
	})
}

func TestRepository_ListTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM wallet_transactions`).
		WithArgs(uint(7), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "currency", "kind", "reference", "created_at"}).
			AddRow(2, 7, "50.00", "LKR", "TOPUP", "ORDER2", now).
			AddRow(1, 7, "100.00", "LKR", "TOPUP", "ORDER1", now.Add(-time.Hour)))

	txs, err := NewRepository(db).ListTransactions(context.Background(), 7, 20)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "ORDER2", txs[0].Reference)
	assert.Equal(t, KindTopUp, txs[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
