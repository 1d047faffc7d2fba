package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/locofvijay/room-reservation-service/internal/domain"
	"github.com/locofvijay/room-reservation-service/internal/metrics"
	"github.com/locofvijay/room-reservation-service/internal/worker"
)

// errDropMessage marks deliveries that must be acked and forgotten, such as
// malformed payloads. Redelivering them would never succeed.
var errDropMessage = errors.New("drop message")

// Consumer listens on the bank-transfer notifications queue and applies each
// payment to its reservation. It keeps a reconnect loop with exponential
// backoff and never lets a single bad message stop consumption.
type Consumer struct {
	url       string
	queueName string
	prefetch  int
	confirmer domain.ReservationConfirmer
	seen      domain.SeenStore
	retry     worker.RetryPolicy
	logger    *zerolog.Logger
}

func NewConsumer(url, queueName string, prefetch int, confirmer domain.ReservationConfirmer, seen domain.SeenStore, logger *zerolog.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 10
	}
	return &Consumer{
		url:       url,
		queueName: queueName,
		prefetch:  prefetch,
		confirmer: confirmer,
		seen:      seen,
		retry: worker.RetryPolicy{
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2,
		},
		logger: logger,
	}
}

// Start runs the consume loop until ctx is cancelled. Broker outages are
// retried with backoff; a closed channel triggers a reconnect.
func (c *Consumer) Start(ctx context.Context) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			attempt++
			delay := c.retry.NextDelay(attempt)
			c.logger.Error().Err(err).Dur("retry_in", delay).Msg("amqp dial failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0
		c.logger.Info().Str("queue", c.queueName).Msg("connected to amqp broker")

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn().Err(err).Msg("amqp consume loop ended, reconnecting")
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleDelivery(ctx, d.Body); err != nil {
				if errors.Is(err, errDropMessage) {
					_ = d.Ack(false)
					continue
				}
				c.logger.Error().Err(err).Msg("payment event processing failed")
				// First failure goes back on the queue once; a second one is
				// discarded so a poisoned message cannot loop forever.
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleDelivery processes one notification. Malformed payloads come back as
// errDropMessage so the caller acks them away.
func (c *Consumer) handleDelivery(ctx context.Context, body []byte) error {
	var event BankTransferEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Warn().Err(err).Str("body", string(body)).Msg("malformed payment event dropped")
		metrics.IncReconcilerEvent("malformed")
		return errDropMessage
	}

	reservationID := event.ReservationID()
	if reservationID == "" {
		c.logger.Warn().
			Str("payment_id", event.PaymentID).
			Str("description", event.TransactionDescription).
			Msg("payment event without reservation id dropped")
		metrics.IncReconcilerEvent("malformed")
		return errDropMessage
	}

	amount, err := event.Amount()
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("payment_id", event.PaymentID).
			Str("amount_received", event.AmountReceived).
			Msg("payment event with unparsable amount dropped")
		metrics.IncReconcilerEvent("malformed")
		return errDropMessage
	}

	if c.seen != nil && event.PaymentID != "" {
		first, err := c.seen.MarkSeen(ctx, event.PaymentID)
		if err != nil {
			// Dedup store trouble is not a reason to lose a payment; the
			// reconcile path is idempotent anyway.
			c.logger.Warn().Err(err).Str("payment_id", event.PaymentID).Msg("seen store unavailable, processing without dedup")
		} else if !first {
			c.logger.Info().Str("payment_id", event.PaymentID).Msg("duplicate payment event skipped")
			metrics.IncReconcilerEvent("duplicate")
			return nil
		}
	}

	c.logger.Info().
		Str("payment_id", event.PaymentID).
		Str("reservation_id", reservationID).
		Str("amount", amount.String()).
		Msg("payment event received")

	return c.confirmer.ApplyBankTransfer(ctx, reservationID, amount)
}
