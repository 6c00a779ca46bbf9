package metrics

import "sync/atomic"

type Counter struct {
	value atomic.Uint64
}

func (c *Counter) Inc() {
	c.value.Add(1)
}

func (c *Counter) Add(n uint64) {
	c.value.Add(n)
}

func (c *Counter) Load() uint64 {
	return c.value.Load()
}

// Webhook counts gateway notifications by outcome.
type Webhook struct {
	Received   Counter
	Malformed  Counter
	Rejected   Counter
	Duplicates Counter
	Applied    Counter
	Ignored    Counter
}

func NewWebhook() *Webhook {
	return &Webhook{}
}

func (w *Webhook) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"webhook_received_total":   w.Received.Load(),
		"webhook_malformed_total":  w.Malformed.Load(),
		"webhook_rejected_total":   w.Rejected.Load(),
		"webhook_duplicates_total": w.Duplicates.Load(),
		"webhook_applied_total":    w.Applied.Load(),
		"webhook_ignored_total":    w.Ignored.Load(),
	}
}
