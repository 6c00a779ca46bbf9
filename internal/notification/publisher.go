package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lancer-be/internal/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const SubjectPaymentCompleted = "payments.completed"

// PaymentEvent tells the rest of the marketplace (notification feed, emails)
// that a wallet top-up settled.
type PaymentEvent struct {
	OrderID    string    `json:"order_id"`
	UserID     uint      `json:"user_id"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishPaymentEvent(ctx context.Context, evt PaymentEvent) error
	Close()
}

type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

type natsPublisher struct {
	nc      conn
	subject string
}

// Connect dials NATS and returns a publisher for payment events.
func Connect(url string) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("lancer-be"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.L().Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.L().Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newNATSPublisher(nc, SubjectPaymentCompleted), nil
}

func newNATSPublisher(nc conn, subject string) *natsPublisher {
	return &natsPublisher{nc: nc, subject: subject}
}

func (p *natsPublisher) PublishPaymentEvent(ctx context.Context, evt PaymentEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return p.nc.FlushWithContext(ctx)
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		logger.L().Warn("nats drain failed", zap.Error(err))
	}
}

// NopPublisher drops events. Used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishPaymentEvent(ctx context.Context, evt PaymentEvent) error {
	logger.FromCtx(ctx).Debug("payment event dropped, no broker configured",
		zap.String("order_id", evt.OrderID),
		zap.String("status", evt.Status),
	)
	return nil
}

func (NopPublisher) Close() {}
