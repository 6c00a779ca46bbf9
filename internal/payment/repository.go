package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const Provider = "PAYHERE"

// GatewayDetails are informational fields reported by the gateway alongside
// a status change.
type GatewayDetails struct {
	PaymentID     string
	Method        string
	StatusMessage string
}

// webhookReclaimAfter is how long an unfinished notification is left to its
// first handler before a repeat may take it over.
const webhookReclaimAfter = "5 minutes"

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
	TransitionStatus(ctx context.Context, orderID string, from, to Status, details GatewayDetails) error
	SavePaymentWebhook(
		ctx context.Context,
		provider string,
		eventID string,
		eventType string,
		orderID string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, isDuplicate bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	const q = `
	INSERT INTO payments (
		order_id,
		user_id,
		amount,
		currency,
		status,
		provider
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at;
	`

	err := r.db.QueryRowContext(ctx, q,
		p.OrderID, p.UserID, p.Amount, p.Currency, string(p.Status), Provider,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save payment %s: %w", p.OrderID, err)
	}
	return nil
}

func (r *repository) GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	const q = `
	SELECT id, order_id, user_id, amount, currency, status,
		COALESCE(gateway_payment_id, ''), COALESCE(method, ''), COALESCE(status_message, ''),
		created_at, updated_at
	FROM payments
	WHERE order_id = $1;
	`

	var (
		p      Payment
		status string
	)
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &status,
		&p.GatewayPaymentID, &p.Method, &p.StatusMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Status = Status(status)
	return &p, nil
}

// TransitionStatus moves a payment from one status to another. It fails with
// ErrInvalidTransition when the payment is no longer in the from status.
func (r *repository) TransitionStatus(
	ctx context.Context,
	orderID string,
	from, to Status,
	details GatewayDetails,
) error {
	const q = `
	UPDATE payments
	SET status = $1,
		gateway_payment_id = $2,
		method = $3,
		status_message = $4,
		updated_at = now()
	WHERE order_id = $5 AND status = $6;
	`

	res, err := r.db.ExecContext(ctx, q,
		string(to), details.PaymentID, details.Method, details.StatusMessage, orderID, string(from),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w %s -> %s for order %s", ErrInvalidTransition, from, to, orderID)
	}
	return nil
}

// SavePaymentWebhook records a notification in the audit table. A repeat of
// an event that was already processed, or is still being processed, reports
// dup. A repeat of an event whose earlier attempt failed, or stalled for
// longer than webhookReclaimAfter, returns the existing row id so the caller
// can process it again.
func (r *repository) SavePaymentWebhook(
	ctx context.Context,
	provider string,
	eventID string,
	eventType string,
	orderID string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_type,
		event_id,
		order_id,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6::jsonb)
	ON CONFLICT (provider, event_id)
	DO UPDATE SET process_error = NULL
	WHERE payment_webhooks.processed_at IS NULL
	  AND (
		payment_webhooks.process_error IS NOT NULL
		OR payment_webhooks.created_at < now() - $7::interval
	  )
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		eventType,
		eventID,
		orderID,
		signatureValid,
		string(payload),
		webhookReclaimAfter,
	).Scan(&id)

	if err != nil {
		// Already handled or in flight
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `
	UPDATE payment_webhooks
	SET processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `
	UPDATE payment_webhooks
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}
