package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/atlasware/souq/internal/domain"
)

// Publisher emits order events to NATS.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server and returns a publisher. The connection
// reconnects indefinitely; a broker restart must not take checkout down.
func Connect(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("souq-server"),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

// Conn exposes the underlying connection so subscribers can share it.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// OrderCreated publishes the order-created event for a committed order.
func (p *Publisher) OrderCreated(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		UserID:      order.UserID,
		PlacedAt:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	if err := p.conn.Publish(SubjectOrderCreated, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", SubjectOrderCreated, err)
	}
	return nil
}

// Close drains the connection so buffered publishes flush before shutdown.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
