package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject  string
	data     []byte
	pubErr   error
	flushed  bool
	drained  bool
	drainErr error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.subject = subj
	f.data = data
	return nil
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	f.flushed = true
	return ctx.Err()
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return f.drainErr
}

func TestNATSPublisher_PublishPaymentEvent(t *testing.T) {
	evt := PaymentEvent{
		OrderID:    "ORDER1",
		UserID:     7,
		Amount:     "100.00",
		Currency:   "LKR",
		Status:     "PAID",
		OccurredAt: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		fc := &fakeConn{}
		p := newNATSPublisher(fc, SubjectPaymentCompleted)

		require.NoError(t, p.PublishPaymentEvent(context.Background(), evt))
		assert.Equal(t, SubjectPaymentCompleted, fc.subject)
		assert.True(t, fc.flushed)

		var got PaymentEvent
		require.NoError(t, json.Unmarshal(fc.data, &got))
		assert.Equal(t, evt, got)
	})

	t.Run("PublishError", func(t *testing.T) {
		fc := &fakeConn{pubErr: errors.New("nats: connection closed")}
		p := newNATSPublisher(fc, SubjectPaymentCompleted)

		err := p.PublishPaymentEvent(context.Background(), evt)
		assert.ErrorContains(t, err, "connection closed")
		assert.False(t, fc.flushed)
	})

	t.Run("Close drains", func(t *testing.T) {
		fc := &fakeConn{drainErr: errors.New("already closed")}
		p := newNATSPublisher(fc, SubjectPaymentCompleted)

		assert.NotPanics(t, p.Close)
		assert.True(t, fc.drained)
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishPaymentEvent(context.Background(), PaymentEvent{OrderID: "ORDER1"}))
	assert.NotPanics(t, p.Close)
}
