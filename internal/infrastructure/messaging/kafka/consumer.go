package kafka

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"

	app "salesorders/internal/application/order"
	"salesorders/internal/config"
	"salesorders/internal/domain/apperror"
	domain "salesorders/internal/domain/order"
	"salesorders/pkg/logger"
)

// PaymentConsumer reads payment completion events and marks the paid
// order. Events arrive as JSON from the payment gateway.
type PaymentConsumer struct {
	reader *kafkago.Reader
	orders *app.Service
	log    logger.Logger
}

func NewPaymentConsumer(cfg config.KafkaConfig, orders *app.Service, log logger.Logger) *PaymentConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.PaymentTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &PaymentConsumer{
		reader: reader,
		orders: orders,
		log:    log,
	}
}

// Start consumes until the context is cancelled or the reader fails.
// Malformed or inapplicable events are logged and skipped; stopping the
// loop would stall every later payment behind one bad message.
func (c *PaymentConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var ev domain.PaymentCompletedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.log.Warn("skipping malformed payment event",
				logger.Error(err),
				logger.Int64("offset", msg.Offset),
			)
			continue
		}

		if _, err := c.orders.MarkPaid(ctx, ev.OrderID); err != nil {
			var illegal apperror.IllegalStateError
			var notFound apperror.NotFoundError
			if errors.As(err, &illegal) || errors.As(err, &notFound) {
				c.log.Warn("payment event not applicable",
					logger.String("order_id", ev.OrderID),
					logger.Error(err),
				)
				continue
			}
			return err
		}

		c.log.Info("order marked paid from payment event",
			logger.String("order_id", ev.OrderID),
		)
	}
}

func (c *PaymentConsumer) Close() {
	_ = c.reader.Close()
}
