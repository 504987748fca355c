package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// Sender delivers one outbox event
type Sender interface {
	Send(ctx context.Context, ev *models.OutboxEvent) error
	Close() error
}

// Envelope is the message value published for every event
type Envelope struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func envelope(ev *models.OutboxEvent) ([]byte, error) {
	return json.Marshal(Envelope{
		ID:        ev.ID,
		Type:      ev.Type,
		Payload:   json.RawMessage(ev.Payload),
		CreatedAt: ev.CreatedAt,
	})
}

// KafkaSender publishes events to a Kafka topic
type KafkaSender struct {
	writer *kafka.Writer
}

// NewKafkaSender creates a synchronous producer that waits for all replicas
func NewKafkaSender(cfg *config.EventsConfig) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

// Send writes the event keyed by its partition key
func (s *KafkaSender) Send(ctx context.Context, ev *models.OutboxEvent) error {
	value, err := envelope(ev)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Key),
		Value: value,
	})
}

// Close flushes and closes the producer
func (s *KafkaSender) Close() error {
	if s == nil || s.writer == nil {
		return nil
	}
	return s.writer.Close()
}

// LogSender writes events to the log. Used when no brokers are configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log sender
func NewLogSender() *LogSender {
	return &LogSender{logger: logging.WithComponent("outbox-log-sender")}
}

// Send logs the event
func (s *LogSender) Send(ctx context.Context, ev *models.OutboxEvent) error {
	value, err := envelope(ev)
	if err != nil {
		return err
	}
	s.logger.Info("Outbox event",
		zap.String("type", ev.Type),
		zap.String("key", ev.Key),
		zap.ByteString("value", value),
	)
	return nil
}

// Close is a no-op
func (s *LogSender) Close() error {
	return nil
}

// NewSender picks the Kafka sender when brokers are configured
func NewSender(cfg *config.EventsConfig) Sender {
	if len(cfg.Brokers) == 0 {
		return NewLogSender()
	}
	return NewKafkaSender(cfg)
}
