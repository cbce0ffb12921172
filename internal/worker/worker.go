// Package worker runs the order notification consumer. It subscribes to
// order events and sends confirmation emails out of the request path, so a
// slow or broken SMTP server never delays checkout.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/email"
	"github.com/atlasware/souq/internal/events"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// QueueGroup is the NATS queue group; workers in the same group share
	// the event stream so each order is handled once.
	QueueGroup string

	// SendTimeout bounds a single email delivery attempt.
	SendTimeout time.Duration
}

// Worker consumes order events and sends notification emails
type Worker struct {
	config       Config
	conn         *nats.Conn
	orders       domain.OrderStore
	users        domain.UserStore
	emailService *email.Service
	logger       *slog.Logger

	sub *nats.Subscription
}

// NewWorker creates a new order notification worker
func NewWorker(
	conn *nats.Conn,
	orders domain.OrderStore,
	users domain.UserStore,
	emailService *email.Service,
	config Config,
	logger *slog.Logger,
) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.QueueGroup == "" {
		config.QueueGroup = "souq-notifications"
	}
	if config.SendTimeout == 0 {
		config.SendTimeout = 30 * time.Second
	}

	return &Worker{
		config:       config,
		conn:         conn,
		orders:       orders,
		users:        users,
		emailService: emailService,
		logger:       logger,
	}
}

// Start subscribes to order events and processes them until the context is
// cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"subject", events.SubjectOrderCreated,
		"queue_group", w.config.QueueGroup,
	)

	sub, err := w.conn.QueueSubscribe(events.SubjectOrderCreated, w.config.QueueGroup, func(msg *nats.Msg) {
		w.handleOrderCreated(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.SubjectOrderCreated, err)
	}
	w.sub = sub

	<-ctx.Done()

	w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
	_ = sub.Drain()
	return ctx.Err()
}

// handleOrderCreated loads the committed order and emails the customer.
// Notification is best effort: every failure is logged and dropped, never
// retried against the customer-facing flow.
func (w *Worker) handleOrderCreated(ctx context.Context, data []byte) {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("discarding malformed order event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.config.SendTimeout)
	defer cancel()

	order, err := w.orders.GetOrder(ctx, event.OrderID)
	if err != nil {
		w.logger.Error("failed to load order for notification",
			"order_id", event.OrderID,
			"order_number", event.OrderNumber,
			"error", err,
		)
		return
	}

	user, err := w.users.GetUserByID(ctx, order.UserID)
	if err != nil {
		w.logger.Error("failed to load customer for notification",
			"order_id", order.ID,
			"user_id", order.UserID,
			"error", err,
		)
		return
	}

	if err := w.emailService.SendOrderConfirmation(ctx, email.NewOrderConfirmation(user, order)); err != nil {
		w.logger.Error("failed to send order confirmation",
			"order_id", order.ID,
			"order_number", order.Number,
			"error", err,
		)
		return
	}

	w.logger.Info("order confirmation sent",
		"order_id", order.ID,
		"order_number", order.Number,
	)
}
