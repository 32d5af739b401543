package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers    = "user_events"
	TopicPosts    = "post_events"
	TopicComments = "comment_events"

	writeTimeout = 5 * time.Second
)

type Event map[string]any

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns an async writer; delivery failures are reported through the logger.
func NewProducer(brokers []string, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Error("kafka_delivery_failed", "messages", len(msgs), "error", err)
			}
		},
	}
	return &Producer{writer: w}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

// New picks the kafka producer when brokers are configured.
func New(brokers []string, logger *slog.Logger) (Publisher, func() error) {
	if len(brokers) == 0 {
		logger.Info("kafka_disabled")
		return Nop{}, func() error { return nil }
	}
	p := NewProducer(brokers, logger)
	return p, p.Close
}

// Emit publishes with a bounded timeout and only logs failures.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, topic, key string, event Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
		logger.Warn("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
