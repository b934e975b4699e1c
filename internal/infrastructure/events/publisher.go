// Package events publishes completed orders to Kafka for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/alexanderovie/integrity/internal/application"
)

const EventTypePaymentCompleted = "payment.completed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

var _ application.EventPublisher = (*KafkaPublisher)(nil)

type paymentCompleted struct {
	EventType     string    `json:"event_type"`
	SessionID     string    `json:"session_id"`
	ServiceID     string    `json:"service_id"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	AmountMinor   int64     `json:"amount_minor"`
	Currency      string    `json:"currency"`
	CompletedAt   time.Time `json:"completed_at"`
}

// PublishPaymentCompleted writes one message keyed by session id so redeliveries land on the same partition.
func (p *KafkaPublisher) PublishPaymentCompleted(ctx context.Context, order application.OrderSummary) error {
	payload, err := json.Marshal(paymentCompleted{
		EventType:     EventTypePaymentCompleted,
		SessionID:     string(order.SessionID),
		ServiceID:     order.ServiceID,
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName,
		AmountMinor:   order.AmountMinor,
		Currency:      order.Currency,
		CompletedAt:   order.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal payment completed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypePaymentCompleted)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish payment completed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
