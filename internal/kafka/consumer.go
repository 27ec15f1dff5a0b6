package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeResolutions decodes each message as a domain.ResolutionEvent.
// Undecodable messages are logged and skipped.
func (c *Consumer) ConsumeResolutions(ctx context.Context, handler func(context.Context, domain.ResolutionEvent) error) error {
	return c.Consume(ctx, resolutionHandler(c.logger, handler))
}

func resolutionHandler(logger *zap.Logger, handler func(context.Context, domain.ResolutionEvent) error) func(context.Context, kafka.Message) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := decodeResolution(msg)
		if err != nil {
			logger.Warn("skipping message", zap.Int64("offset", msg.Offset), zap.Error(err))
			return nil
		}
		return handler(ctx, event)
	}
}

func decodeResolution(msg kafka.Message) (domain.ResolutionEvent, error) {
	var event domain.ResolutionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, fmt.Errorf("decode resolution event: %w", err)
	}
	if event.ID == "" || event.Query == "" {
		return event, fmt.Errorf("resolution event missing id or query")
	}
	return event, nil
}
