package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetWallet(ctx context.Context, userID uint) (*Wallet, error)
	Credit(ctx context.Context, userID uint, amount decimal.Decimal, currency, reference string) error
	ListTransactions(ctx context.Context, userID uint, limit int) ([]Transaction, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetWallet(ctx context.Context, userID uint) (*Wallet, error) {
	const q = `
	SELECT user_id, balance, currency, updated_at
	FROM wallets
	WHERE user_id = $1;
	`

	var w Wallet
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&w.UserID, &w.Balance, &w.Currency, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds amount to the user's wallet and records a ledger row in one
// transaction. A reference can be credited only once.
func (r *repository) Credit(
	ctx context.Context,
	userID uint,
	amount decimal.Decimal,
	currency string,
	reference string,
) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credit tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertLedger = `
	INSERT INTO wallet_transactions (user_id, amount, currency, kind, reference)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (reference) DO NOTHING
	RETURNING id;
	`

	var txID int64
	err = tx.QueryRowContext(ctx, insertLedger, userID, amount, currency, string(KindTopUp), reference).Scan(&txID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrAlreadyCredited
		return err
	}
	if err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}

	const upsertWallet = `
	INSERT INTO wallets (user_id, balance, currency)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE
	SET balance = wallets.balance + EXCLUDED.balance,
		updated_at = now()
	WHERE wallets.currency = EXCLUDED.currency;
	`

	res, err := tx.ExecContext(ctx, upsertWallet, userID, amount, currency)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrCurrencyMismatch
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit credit tx: %w", err)
	}
	return nil
}

func (r *repository) ListTransactions(ctx context.Context, userID uint, limit int) ([]Transaction, error) {
	const q = `
	SELECT id, user_id, amount, currency, kind, reference, created_at
	FROM wallet_transactions
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2;
	`

	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var (
			t    Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Currency, &kind, &t.Reference, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Kind = TransactionKind(kind)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
