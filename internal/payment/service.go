package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lancer-be/internal/logger"
	"lancer-be/internal/notification"
	"lancer-be/internal/utils"
	"lancer-be/internal/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Merchant is the gateway account this backend sells wallet top-ups through.
// Digest is computed once at startup from the raw secret.
type Merchant struct {
	ID          string
	Digest      Digest
	Currency    string
	CheckoutURL string
	URLs        CallbackURLs
}

type CheckoutInput struct {
	Amount   decimal.Decimal
	Currency string
	Items    string
	Customer Customer
}

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

type NotificationResult struct {
	Outcome Outcome
	Status  Status
}

type Service interface {
	CreateCheckout(ctx context.Context, userID uint, in CheckoutInput) (*SignedCheckout, error)
	GetPayment(ctx context.Context, userID uint, orderID string) (*Payment, error)
	HandleNotification(ctx context.Context, n InboundNotification, payload json.RawMessage) (*NotificationResult, error)
}

type service struct {
	repo       Repository
	wallet     wallet.Service
	publisher  notification.Publisher
	signer     *Signer
	merchant   Merchant
	newOrderID func() string
	now        func() time.Time
}

func NewService(
	repo Repository,
	walletSvc wallet.Service,
	publisher notification.Publisher,
	signer *Signer,
	merchant Merchant,
) Service {
	return &service{
		repo:       repo,
		wallet:     walletSvc,
		publisher:  publisher,
		signer:     signer,
		merchant:   merchant,
		newOrderID: utils.GenerateOrderID,
		now:        time.Now,
	}
}

func (s *service) CreateCheckout(ctx context.Context, userID uint, in CheckoutInput) (*SignedCheckout, error) {
	if _, err := FormatDecimal(in.Amount); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	// Wallets hold a single currency, so top-ups are only sold in it.
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.merchant.Currency
	}
	if currency != s.merchant.Currency {
		return nil, fmt.Errorf("%w: checkout=%s wallet=%s", ErrCurrencyMismatch, currency, s.merchant.Currency)
	}

	items := in.Items
	if items == "" {
		items = "Wallet top-up"
	}

	req := PaymentRequest{
		MerchantID: s.merchant.ID,
		OrderID:    s.newOrderID(),
		Amount:     in.Amount,
		Currency:   currency,
		Items:      items,
		Customer:   in.Customer,
		URLs:       s.merchant.URLs,
	}

	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.String("currency", currency),
	)

	signed, err := s.signer.Sign(req, s.merchant.Digest)
	if err != nil {
		log.Warn("Rejected checkout request", zap.Error(err))
		return nil, err
	}
	signed.ActionURL = s.merchant.CheckoutURL

	p := &Payment{
		OrderID:  req.OrderID,
		UserID:   userID,
		Amount:   req.Amount,
		Currency: currency,
		Status:   StatusPending,
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		log.Error("Failed to save pending payment", zap.Error(err))
		return nil, err
	}

	log.Info("Checkout created", zap.String("amount", signed.Amount))
	return signed, nil
}

func (s *service) GetPayment(ctx context.Context, userID uint, orderID string) (*Payment, error) {
	p, err := s.repo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Other users' payments are reported as missing.
	if p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// HandleNotification applies a gateway notification. Nothing changes unless
// the signature verifies; every notification is recorded in the webhook audit
// table whatever its outcome.
func (s *service) HandleNotification(
	ctx context.Context,
	n InboundNotification,
	payload json.RawMessage,
) (*NotificationResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", n.OrderID),
		zap.String("payment_id", n.PaymentID),
		zap.String("status_code", n.StatusCode),
	)

	valid := n.MerchantID == s.merchant.ID && s.signer.Verify(n, s.merchant.Digest)

	eventID := notificationEventID(n)
	webhookID, dup, err := s.repo.SavePaymentWebhook(
		ctx, Provider, eventID, "status_"+n.StatusCode, n.OrderID, payload, valid,
	)
	if err != nil {
		log.Error("Failed to record webhook", zap.Error(err))
		return nil, err
	}
	// A repeat of a failed attempt comes back as a fresh id and is redone:
	// the credit is idempotent and the transition is conditional.
	if dup {
		log.Info("Duplicate notification ignored")
		return &NotificationResult{Outcome: OutcomeDuplicate}, nil
	}

	fail := func(cause error) (*NotificationResult, error) {
		log.Warn("Notification rejected", zap.Error(cause))
		if err := s.repo.MarkWebhookFailed(ctx, webhookID, cause.Error()); err != nil {
			log.Error("Failed to mark webhook failed", zap.Error(err))
		}
		return nil, cause
	}

	if !valid {
		return fail(ErrSignatureMismatch)
	}

	status, ok := StatusFromCode(n.StatusCode)
	if !ok {
		return fail(fmt.Errorf("%w: unknown status code %q", ErrInvalidTransition, n.StatusCode))
	}

	p, err := s.repo.GetPaymentByOrderID(ctx, n.OrderID)
	if err != nil {
		return fail(err)
	}

	amount, err := ParseAmount(n.Amount)
	if err != nil {
		return fail(err)
	}
	if !amount.Equal(p.Amount) {
		return fail(fmt.Errorf("%w: webhook=%s db=%s", ErrAmountMismatch, n.Amount, p.Amount.StringFixed(2)))
	}
	if !strings.EqualFold(n.Currency, p.Currency) {
		return fail(fmt.Errorf("%w: webhook=%s db=%s", ErrCurrencyMismatch, n.Currency, p.Currency))
	}

	switch {
	case status == StatusPending:
		return s.processed(ctx, log, webhookID, OutcomeIgnored, status)
	case p.Status == status:
		log.Info("Payment already in reported status")
		return s.processed(ctx, log, webhookID, OutcomeIgnored, status)
	case p.Status != StatusPending:
		return fail(fmt.Errorf("%w %s -> %s", ErrInvalidTransition, p.Status, status))
	}

	if status == StatusPaid {
		err := s.wallet.TopUp(ctx, p.UserID, p.Amount, p.Currency, p.OrderID)
		if err != nil && !errors.Is(err, wallet.ErrAlreadyCredited) {
			return fail(fmt.Errorf("credit wallet: %w", err))
		}
	}

	details := GatewayDetails{PaymentID: n.PaymentID, Method: n.Method, StatusMessage: n.StatusMessage}
	if err := s.repo.TransitionStatus(ctx, p.OrderID, StatusPending, status, details); err != nil {
		return fail(err)
	}

	if status == StatusPaid {
		s.publish(ctx, log, p, status)
	}

	log.Info("Payment status updated", zap.String("status", string(status)))
	return s.processed(ctx, log, webhookID, OutcomeApplied, status)
}

func (s *service) processed(
	ctx context.Context,
	log *zap.Logger,
	webhookID int64,
	outcome Outcome,
	status Status,
) (*NotificationResult, error) {
	if err := s.repo.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Error("Failed to mark webhook processed", zap.Error(err))
	}
	return &NotificationResult{Outcome: outcome, Status: status}, nil
}

func (s *service) publish(ctx context.Context, log *zap.Logger, p *Payment, status Status) {
	evt := notification.PaymentEvent{
		OrderID:    p.OrderID,
		UserID:     p.UserID,
		Amount:     p.Amount.StringFixed(2),
		Currency:   p.Currency,
		Status:     string(status),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishPaymentEvent(ctx, evt); err != nil {
		log.Error("Failed to publish payment event", zap.Error(err))
	}
}

// notificationEventID identifies one signed status report for one payment.
// A gateway retry of the same report maps to the same id; a forged report
// carries a different signature and cannot shadow the genuine one.
func notificationEventID(n InboundNotification) string {
	id := n.PaymentID
	if id == "" {
		id = n.OrderID
	}
	return id + ":" + n.StatusCode + ":" + n.ProvidedSignature
}
