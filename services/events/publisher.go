package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"villastay/config"
	"villastay/models"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits booking domain events to the configured broker.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

// NewEvent stamps an event envelope. id is the aggregate the event is about.
func NewEvent(eventType, id string, data interface{}) models.Event {
	return models.Event{Type: eventType, ID: id, OccurredAt: time.Now().UTC(), Data: data}
}

// NewPublisher builds the publisher selected by EVENTS_DRIVER.
func NewPublisher(cfg config.Config, logger *zap.Logger) (Publisher, error) {
	switch strings.ToLower(cfg.EventsDriver) {
	case "", "none":
		return NoopPublisher{}, nil
	case "kafka":
		brokers := cfg.KafkaBrokerList()
		if len(brokers) == 0 {
			return nil, fmt.Errorf("events: kafka driver requires KAFKA_BROKERS")
		}
		w := &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		}
		logger.Info("events: publishing to kafka", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
		return NewKafkaPublisher(w), nil
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("events: nats driver requires NATS_URL")
		}
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("villastay"), nats.MaxReconnects(-1))
		if err != nil {
			return nil, fmt.Errorf("events: failed to connect to nats: %w", err)
		}
		logger.Info("events: publishing to nats", zap.String("url", cfg.NATSURL))
		return NewNATSPublisher(nc, cfg.NATSSubjectPrefix), nil
	}
	return nil, fmt.Errorf("events: unknown driver %q", cfg.EventsDriver)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.Event) error { return nil }
func (NoopPublisher) Close() error { return nil }

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(w messageWriter) Publisher {
	return &kafkaPublisher{writer: w}
}

// Publish keys messages by aggregate id so events for one request stay ordered.
func (p *kafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to encode %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: kafka publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	conn   natsConn
	prefix string
}

func NewNATSPublisher(conn natsConn, prefix string) Publisher {
	return &natsPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *natsPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *natsPublisher) Publish(_ context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to encode %s: %w", event.Type, err)
	}
	if err := p.conn.Publish(p.Subject(event.Type), payload); err != nil {
		return fmt.Errorf("events: nats publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *natsPublisher) Close() error {
	return p.conn.Drain()
}
