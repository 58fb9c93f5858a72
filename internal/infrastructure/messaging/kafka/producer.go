package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"salesorders/internal/config"
	domain "salesorders/internal/domain/order"
	"salesorders/internal/infrastructure/encoding/avro"
	"salesorders/pkg/logger"
)

// StatusEventProducer publishes order status change events as Avro
// records. Records are keyed by order ID so every event for one order
// lands on the same partition and consumers see transitions in order.
type StatusEventProducer struct {
	client  *kgo.Client
	encoder *avro.Encoder
	topic   string
	log     logger.Logger
}

func NewStatusEventProducer(cfg config.KafkaConfig, log logger.Logger) (*StatusEventProducer, error) {
	encoder, err := avro.NewEncoder(avro.StatusChangedSchema)
	if err != nil {
		return nil, err
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.StatusTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.StatusTopic),
	)

	return &StatusEventProducer{
		client:  client,
		encoder: encoder,
		topic:   cfg.StatusTopic,
		log:     log,
	}, nil
}

func (p *StatusEventProducer) PublishStatusChanged(ctx context.Context, ev domain.StatusChangedEvent) error {
	payload, err := p.encoder.EncodeNative(avro.ToStatusChangedNative(ev))
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(ev.OrderID),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *StatusEventProducer) Close(ctx context.Context) error {
	p.log.Info("closing kafka producer", logger.String("topic", p.topic))
	p.client.Close()
	return nil
}
