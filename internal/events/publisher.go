package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"squido/pkg/domain"
)

const (
	exchangeName = "squido.events"
	exchangeType = "topic"

	RoutingKeyOrderCreated       = "order.created"
	RoutingKeyOrderStatusChanged = "order.status_changed"
)

// Event is the envelope published for every domain event.
type Event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Publisher pushes order events onto a RabbitMQ topic exchange.
// A nil *Publisher is valid and drops all events, so callers do not need to
// branch on whether messaging is configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials RabbitMQ and declares the events exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// PublishOrderCreated emits an order.created event.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, RoutingKeyOrderCreated, map[string]any{
		"orderId":    order.ID,
		"number":     order.Number,
		"customerId": order.CustomerID,
		"itemCount":  len(order.Items),
	})
}

// PublishOrderStatusChanged emits an order.status_changed event.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return p.publish(ctx, RoutingKeyOrderStatusChanged, map[string]any{
		"orderId": orderID,
		"status":  string(status),
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	if p == nil {
		return nil
	}
	event := Event{
		EventID:   uuid.NewString(),
		EventType: routingKey,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
