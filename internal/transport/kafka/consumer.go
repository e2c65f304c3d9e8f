package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// HandleFunc processes a single domain.Event from Kafka
type HandleFunc func(context.Context, domain.Event) error

var newConsumerGroup = sarama.NewConsumerGroup

const (
	handleAttempts = 3
	handleDelay    = 200 * time.Millisecond
)

// Consumer wraps a Sarama consumer group and dispatches events to a handler
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
	delay   time.Duration
}

// NewConsumer creates a new Kafka consumer. It returns nil without error when
// Kafka is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	// не стартую если у кафки нет настроек
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logx.Nop()
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: h,
		logger:  logger.With(logx.String("component", "kafka_consumer")),
		delay:   handleDelay,
	}, nil
}

// Run consumes until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		<-ctx.Done()
		return nil
	}

	h := &groupHandler{c: c}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("kafka consume error", logx.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close closes the consumer group
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json", logx.Int64("offset", msg.Offset), logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev := ToDomain(dto)
		if ev.Type == "" {
			h.c.logger.Warn("kafka empty event type", logx.Int64("offset", msg.Offset))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.handle(sess.Context(), ev); err != nil {
			h.c.logger.Error("kafka handle failed, skipping message",
				logx.String("event", string(ev.Type)),
				logx.String("event_id", ev.ID),
				logx.OrderID(ev.OrderID),
				logx.Err(err),
			)
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}

// handle retries transient handler failures a few times.
func (h *groupHandler) handle(ctx context.Context, ev domain.Event) error {
	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = h.c.handler(ctx, ev); err == nil {
			return nil
		}
		if IsPermanent(err) || attempt == handleAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.c.delay):
		}
	}
	return err
}
