package webhook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"lancer-be/internal/logger"
	"lancer-be/internal/metrics"
	"lancer-be/internal/payment"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 64 << 10
	replayWindow = 10 * time.Minute
	replaySize   = 4096
)

// Gateway form field names.
const (
	fieldMerchantID    = "merchant_id"
	fieldOrderID       = "order_id"
	fieldPaymentID     = "payment_id"
	fieldAmount        = "payhere_amount"
	fieldCurrency      = "payhere_currency"
	fieldStatusCode    = "status_code"
	fieldSignature     = "md5sig"
	fieldMethod        = "method"
	fieldStatusMessage = "status_message"
)

var requiredFields = []string{
	fieldMerchantID,
	fieldOrderID,
	fieldAmount,
	fieldCurrency,
	fieldStatusCode,
	fieldSignature,
}

// Handler receives payment status notifications from the gateway.
type Handler struct {
	svc     payment.Service
	seen    *expirable.LRU[string, struct{}]
	metrics *metrics.Webhook
}

func NewWebhookHandler(svc payment.Service, m *metrics.Webhook) *Handler {
	if m == nil {
		m = metrics.NewWebhook()
	}
	return &Handler{
		svc:     svc,
		seen:    expirable.NewLRU[string, struct{}](replaySize, nil, replayWindow),
		metrics: m,
	}
}

// PaymentWebhookHandler always answers 200: the gateway retries on anything
// else, and a retry cannot fix a bad signature or an amount mismatch.
// Rejections are visible in the logs, the audit table and the counters.
func (h *Handler) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.Received.Inc()
	log := logger.FromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.metrics.Malformed.Inc()
		log.Warn("Failed to parse webhook form", zap.Error(err))
		respond(w, "ignored")
		return
	}

	n, err := parseNotification(r.PostForm)
	if err != nil {
		h.metrics.Malformed.Inc()
		log.Warn("Malformed webhook", zap.Error(err))
		respond(w, "ignored")
		return
	}

	key := replayKey(n)
	if h.seen.Contains(key) {
		h.metrics.Duplicates.Inc()
		log.Info("Webhook replay ignored", zap.String("order_id", n.OrderID))
		respond(w, "ok")
		return
	}

	payload, err := json.Marshal(r.PostForm)
	if err != nil {
		payload = []byte("{}")
	}

	res, err := h.svc.HandleNotification(r.Context(), n, payload)
	if err != nil {
		h.metrics.Rejected.Inc()
		if errors.Is(err, payment.ErrSignatureMismatch) {
			log.Warn("Untrusted payment notification", zap.String("order_id", n.OrderID))
		} else {
			log.Error("Failed to process payment notification",
				zap.String("order_id", n.OrderID),
				zap.Error(err),
			)
		}
		respond(w, "ok")
		return
	}

	h.seen.Add(key, struct{}{})
	switch res.Outcome {
	case payment.OutcomeApplied:
		h.metrics.Applied.Inc()
	case payment.OutcomeDuplicate:
		h.metrics.Duplicates.Inc()
	default:
		h.metrics.Ignored.Inc()
	}

	log.Info("Payment notification handled",
		zap.String("order_id", n.OrderID),
		zap.String("outcome", string(res.Outcome)),
		zap.String("status", string(res.Status)),
	)
	respond(w, "ok")
}

func parseNotification(form map[string][]string) (payment.InboundNotification, error) {
	get := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	var missing []string
	for _, f := range requiredFields {
		if get(f) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return payment.InboundNotification{}, errors.New("missing fields: " + strings.Join(missing, ", "))
	}

	return payment.InboundNotification{
		MerchantID:        get(fieldMerchantID),
		OrderID:           get(fieldOrderID),
		PaymentID:         get(fieldPaymentID),
		Amount:            get(fieldAmount),
		Currency:          get(fieldCurrency),
		StatusCode:        get(fieldStatusCode),
		StatusMessage:     get(fieldStatusMessage),
		Method:            get(fieldMethod),
		ProvidedSignature: get(fieldSignature),
	}, nil
}

func replayKey(n payment.InboundNotification) string {
	return strings.Join([]string{n.OrderID, n.PaymentID, n.StatusCode, n.ProvidedSignature}, "|")
}

func respond(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
