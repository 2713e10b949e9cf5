package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"clearwater/internal/shared/events"
)

// KafkaPublisher writes envelopes to an external broker. Used instead of
// the in-process Bus when KAFKA_BROKERS is configured.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event events.Envelope) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityID),
		Value: raw,
		Time:  event.OccurredAtUTC,
	})
	if err != nil {
		p.logger.Warn("kafka publish failed",
			"event", "kafka_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads envelopes for a topic and hands them to a callback.
// Runs until the context is cancelled; decode failures are skipped.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewKafkaConsumer(brokers []string, topic string, groupID string, logger *slog.Logger) *KafkaConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		logger: logger,
	}
}

func (c *KafkaConsumer) Run(ctx context.Context, handle func(context.Context, events.Envelope) error) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var envelope events.Envelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			c.logger.Warn("skipping undecodable event",
				"event", "kafka_decode_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"error", err.Error(),
			)
			continue
		}
		if err := handle(ctx, envelope); err != nil {
			c.logger.Error("event handler failed",
				"event", "kafka_handle_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", msg.Topic,
				"event_id", envelope.EventID,
				"error", err.Error(),
			)
		}
	}
}
