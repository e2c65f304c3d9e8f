package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/IBM/sarama"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes dispatch events to a single topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer connects a synchronous producer to brokers.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka producer: brokers and topic are required")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewProducerWith(logger, p, topic), nil
}

// NewProducerWith wraps an existing sarama producer.
func NewProducerWith(logger logx.Logger, p sarama.SyncProducer, topic string) *Producer {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Producer{producer: p, topic: topic, logger: logger}
}

// Publish sends e, keyed by order or courier so per-entity events stay ordered.
func (p *Producer) Publish(_ context.Context, e domain.Event) error {
	payload, err := json.Marshal(FromDomain(e))
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(partitionKey(e)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventType), Value: []byte(e.Type)},
			{Key: []byte(headerEventID), Value: []byte(e.ID)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send event %s: %w", e.Type, err)
	}
	p.logger.Debug("event published",
		logx.String("event", string(e.Type)),
		logx.String("event_id", e.ID),
		logx.Int("partition", int(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}

func partitionKey(e domain.Event) string {
	switch {
	case e.OrderID != 0:
		return "order-" + strconv.FormatInt(e.OrderID, 10)
	case e.CourierID != 0:
		return "courier-" + strconv.FormatInt(e.CourierID, 10)
	default:
		return e.ID
	}
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
