package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"docportal/pkg/logger"
	"docportal/pkg/model"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingSettled = "booking.settled"
)

// Event is the envelope published for booking lifecycle changes. Downstream
// consumers (notification senders) key off Type.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    *model.Booking `json:"booking"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort: the
// booking is already committed by the time an event goes out, so a broker
// failure is logged, never surfaced to the patient.
type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingSettled(ctx context.Context, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Kafka publisher initialized", "brokers", brokers, "topic", topic)

	return &kafkaPublisher{
		writer: writer,
		log:    log,
	}, nil
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, TypeBookingCreated, booking)
}

func (p *kafkaPublisher) BookingSettled(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, TypeBookingSettled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    booking,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		// Keyed by patient so one patient's events stay ordered.
		Key:   []byte(booking.PatientEmail),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.log.Debug("Event published", "type", eventType, "event_id", event.ID)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) BookingCreated(context.Context, *model.Booking) error { return nil }
func (NopPublisher) BookingSettled(context.Context, *model.Booking) error { return nil }
func (NopPublisher) Close() error                                         { return nil }
