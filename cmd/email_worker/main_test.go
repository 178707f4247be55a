package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

type stubSender struct {
	to  string
	err error
}

func (s *stubSender) Send(_ context.Context, to, _, _, _ string) error {
	s.to = to
	return s.err
}

func delivery(t *testing.T, job any) (amqp.Delivery, *ackRecorder) {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	rec := &ackRecorder{}
	return amqp.Delivery{Acknowledger: rec, DeliveryTag: 1, Body: body}, rec
}

func TestSettleAcksDeliveredJob(t *testing.T) {
	s := &stubSender{}
	msg, rec := delivery(t, mailer.Welcome("DevConnector", "http://localhost:3000", "Alice", "a@x.io"))

	settle(context.Background(), helpers.NewDiscardLogger(), s, msg, 0)

	assert.True(t, rec.acked)
	assert.False(t, rec.nacked)
	assert.Equal(t, "a@x.io", s.to)
}

func TestSettleDropsBadJob(t *testing.T) {
	msg, rec := delivery(t, mailer.EmailJob{Subject: "no recipient", Text: "x"})

	settle(context.Background(), helpers.NewDiscardLogger(), &stubSender{}, msg, 0)

	assert.True(t, rec.nacked)
	assert.False(t, rec.requeue)
}

func TestSettleRequeuesSendFailure(t *testing.T) {
	msg, rec := delivery(t, mailer.EmailJob{To: "a@x.io", Subject: "hi", Text: "hello"})

	start := time.Now()
	settle(context.Background(), helpers.NewDiscardLogger(), &stubSender{err: errors.New("mailgun down")}, msg, 50*time.Millisecond)

	assert.True(t, rec.nacked)
	assert.True(t, rec.requeue)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSettleRequeueDelayStopsOnShutdown(t *testing.T) {
	msg, rec := delivery(t, mailer.EmailJob{To: "a@x.io", Subject: "hi", Text: "hello"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	settle(ctx, helpers.NewDiscardLogger(), &stubSender{err: errors.New("mailgun down")}, msg, time.Hour)

	assert.Less(t, time.Since(start), time.Minute)
	assert.True(t, rec.requeue)
}

func TestAwaitShutdown(t *testing.T) {
	stop := make(chan os.Signal, 1)
	done := make(chan struct{})
	stop <- os.Interrupt
	assert.NoError(t, awaitShutdown(stop, done))

	close(done)
	assert.ErrorIs(t, awaitShutdown(make(chan os.Signal), done), errDeliveriesClosed)
}
