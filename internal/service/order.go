package service

import (
	"context"

	"github.com/atlasware/souq/internal/domain"
)

// OrderService exposes order history for customers and fulfillment controls
// for admins. Orders are immutable snapshots; only the status ever changes.
type OrderService interface {
	// Customer operations, always scoped to the owning user.
	ListForUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error)

	// Admin operations.
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

type orderService struct {
	orders domain.OrderStore
}

// NewOrderService creates a new OrderService instance
func NewOrderService(orders domain.OrderStore) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *orderService) GetForUser(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return domain.Invalid("order.update_status", "Unknown order status")
	}
	return s.orders.UpdateOrderStatus(ctx, orderID, status)
}
