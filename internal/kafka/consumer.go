package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentChangedEvent represents an upstream notification that a payment
// record was created, updated or deleted in the backing store.
type PaymentChangedEvent struct {
	ID     string `json:"id"`
	Change string `json:"change,omitempty"`
}

// Invalidator is the cache side the consumer drives.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// Consumer consumes payment change events and invalidates the read cache so
// stale listings never outlive the event stream by more than one read.
type Consumer struct {
	reader *kafka.Reader
	cache  Invalidator
	logger *zap.Logger
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers string, topic string, groupID string, cache Invalidator, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{brokers},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{
		reader: reader,
		cache:  cache,
		logger: logger,
	}
}

// Start starts consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("Failed to read message", zap.Error(err))
				continue
			}

			if err := c.handleMessage(ctx, msg); err != nil {
				c.logger.Error("Failed to handle message",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
			}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event PaymentChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	c.logger.Info("Received payment change event",
		zap.String("id", event.ID),
		zap.String("change", event.Change),
	)

	if err := c.cache.Invalidate(ctx, event.ID); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}

	return nil
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
