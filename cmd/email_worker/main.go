package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

const (
	sendTimeout = 15 * time.Second
	// retryDelay holds a failed message before requeueing it so a Mailgun
	// outage does not turn into a hot redelivery loop.
	retryDelay = 10 * time.Second
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			settle(ctx, logger, mg, msg, retryDelay)
		}
		close(done)
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	if err := awaitShutdown(stop, done); err != nil {
		// exit non-zero so the supervisor restarts the worker
		consumer.Close()
		logger.WithError(err).Fatal("email worker stopped")
	}
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

var errDeliveriesClosed = errors.New("delivery channel closed by broker")

// awaitShutdown blocks until a signal arrives or the consumer loop ends on
// its own, which is an error.
func awaitShutdown(stop <-chan os.Signal, done <-chan struct{}) error {
	select {
	case <-stop:
		return nil
	case <-done:
		return errDeliveriesClosed
	}
}

// settle delivers one message and acks it. Undeliverable jobs are dropped;
// send failures go back on the queue after delay.
func settle(ctx context.Context, logger logrus.FieldLogger, s mailer.Sender, msg amqp.Delivery, delay time.Duration) {
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := mailer.Deliver(c, s, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, mailer.ErrBadJob):
		helpers.LogWarn(logger, "dropping email job", err, logrus.Fields{"delivery_tag": msg.DeliveryTag})
		_ = msg.Nack(false, false)
	default:
		helpers.LogError(logger, "send failed", err, logrus.Fields{"delivery_tag": msg.DeliveryTag})
		wait(ctx, delay)
		_ = msg.Nack(false, true)
	}
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
