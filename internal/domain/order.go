package domain

import (
	"context"
	"time"
)

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}

	// ErrInsufficientStock is the lost-race condition: a concurrent checkout
	// depleted a size between validation and commit. The whole transaction
	// rolls back and the caller must restart the checkout flow.
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "An item in your cart is no longer available in the requested quantity"}

	ErrDeliveryCompanyNotFound = &Error{Code: EINVALID, Message: "Please select a valid delivery company"}
)

// OrderStatus tracks post-placement fulfillment. Orders are otherwise
// immutable once created.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a checkout: totals, applied coupon,
// shipping address fields (copied, not referenced), and per-line snapshots.
// Later catalog edits never alter a placed order.
type Order struct {
	ID     int64
	Number string
	UserID int64
	Status OrderStatus

	SubtotalCentimes    int64
	DiscountCentimes    int64
	ShippingFeeCentimes int64
	TotalCentimes       int64

	CouponCode    string
	CouponPercent int32

	// Shipping address snapshot.
	ShipFullName string
	ShipPhone    string
	ShipCity     string
	ShipStreet   string

	DeliveryCompany string
	Note            string

	CreatedAt time.Time

	Lines []OrderLine
}

// OrderLine freezes a purchased line at order-creation time.
type OrderLine struct {
	ID                int64
	OrderID           int64
	ProductTitle      string
	SKU               string
	VariantName       string
	SizeLabel         string
	Quantity          int32
	UnitPriceCentimes int64
}

// LineTotalCentimes returns quantity x unit price for the snapshot line.
func (l OrderLine) LineTotalCentimes() int64 {
	return int64(l.Quantity) * l.UnitPriceCentimes
}

// StockDecrement is one inventory mutation inside the order-commit
// transaction.
type StockDecrement struct {
	SizeID   int64
	Quantity int32
}

// OrderStore is the persistence boundary for orders. PlaceOrder is the only
// write path that touches inventory.
type OrderStore interface {
	// PlaceOrder runs the atomic commit: decrement stock for every entry in
	// decrements (aborting with ErrInsufficientStock if any would go
	// negative), insert the order with its line snapshots, and delete the
	// cart's persisted lines. All writes commit together or not at all.
	PlaceOrder(ctx context.Context, order Order, decrements []StockDecrement, cartID int64) (Order, error)

	// GetOrderForUser returns the order only if it belongs to userID.
	GetOrderForUser(ctx context.Context, orderID, userID int64) (Order, error)

	// ListOrdersByUser returns the user's orders, newest first, without lines.
	ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error)

	// Admin operations.
	GetOrder(ctx context.Context, orderID int64) (Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) error
}

// DeliveryCompany is a flat-fee carrier. Selection is mandatory at checkout
// unless every line qualifies for free delivery.
type DeliveryCompany struct {
	ID          int64
	Name        string
	FeeCentimes int64
	Active      bool
}

// DeliveryStore is the persistence boundary for carriers.
type DeliveryStore interface {
	GetCompany(ctx context.Context, id int64) (DeliveryCompany, error)
	ListCompanies(ctx context.Context, activeOnly bool) ([]DeliveryCompany, error)
}
