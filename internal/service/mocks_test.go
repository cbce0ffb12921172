package service

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var errNotImplemented = errors.New("not implemented in mock")

// mockProductStore implements domain.ProductStore for testing
type mockProductStore struct {
	domain.ProductStore

	GetSizeInventoryFn func(ctx context.Context, sizeIDs []int64) ([]domain.SizeInventory, error)
}

func (m *mockProductStore) GetSizeInventory(ctx context.Context, sizeIDs []int64) ([]domain.SizeInventory, error) {
	if m.GetSizeInventoryFn == nil {
		return nil, errNotImplemented
	}
	return m.GetSizeInventoryFn(ctx, sizeIDs)
}

// mockCartStore implements domain.CartStore for testing
type mockCartStore struct {
	GetCartByUserFn         func(ctx context.Context, userID int64) (domain.Cart, error)
	GetOrCreateCartFn       func(ctx context.Context, userID int64) (domain.Cart, error)
	ReplaceLinesFn          func(ctx context.Context, cartID int64, lines []domain.PersistedLine) error
	GetLinesWithInventoryFn func(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error)
	ClearLinesFn            func(ctx context.Context, cartID int64) error
	replaceLinesCalls       int
}

func (m *mockCartStore) GetCartByUser(ctx context.Context, userID int64) (domain.Cart, error) {
	if m.GetCartByUserFn == nil {
		return domain.Cart{}, errNotImplemented
	}
	return m.GetCartByUserFn(ctx, userID)
}

func (m *mockCartStore) GetOrCreateCart(ctx context.Context, userID int64) (domain.Cart, error) {
	if m.GetOrCreateCartFn == nil {
		return domain.Cart{}, errNotImplemented
	}
	return m.GetOrCreateCartFn(ctx, userID)
}

func (m *mockCartStore) ReplaceLines(ctx context.Context, cartID int64, lines []domain.PersistedLine) error {
	m.replaceLinesCalls++
	if m.ReplaceLinesFn == nil {
		return errNotImplemented
	}
	return m.ReplaceLinesFn(ctx, cartID, lines)
}

func (m *mockCartStore) GetLinesWithInventory(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error) {
	if m.GetLinesWithInventoryFn == nil {
		return nil, errNotImplemented
	}
	return m.GetLinesWithInventoryFn(ctx, cartID)
}

func (m *mockCartStore) ClearLines(ctx context.Context, cartID int64) error {
	if m.ClearLinesFn == nil {
		return errNotImplemented
	}
	return m.ClearLinesFn(ctx, cartID)
}

// mockCouponStore implements domain.CouponStore for testing
type mockCouponStore struct {
	domain.CouponStore

	GetByCodeFn func(ctx context.Context, code string) (domain.Coupon, error)
}

func (m *mockCouponStore) GetByCode(ctx context.Context, code string) (domain.Coupon, error) {
	if m.GetByCodeFn == nil {
		return domain.Coupon{}, errNotImplemented
	}
	return m.GetByCodeFn(ctx, code)
}

// mockUserStore implements domain.UserStore for testing
type mockUserStore struct {
	domain.UserStore

	GetAddressFn    func(ctx context.Context, id int64) (domain.Address, error)
	CreateAddressFn func(ctx context.Context, userID int64, input domain.AddressInput) (domain.Address, error)
}

func (m *mockUserStore) GetAddress(ctx context.Context, id int64) (domain.Address, error) {
	if m.GetAddressFn == nil {
		return domain.Address{}, errNotImplemented
	}
	return m.GetAddressFn(ctx, id)
}

func (m *mockUserStore) CreateAddress(ctx context.Context, userID int64, input domain.AddressInput) (domain.Address, error) {
	if m.CreateAddressFn == nil {
		return domain.Address{}, errNotImplemented
	}
	return m.CreateAddressFn(ctx, userID, input)
}

// mockDeliveryStore implements domain.DeliveryStore for testing
type mockDeliveryStore struct {
	GetCompanyFn    func(ctx context.Context, id int64) (domain.DeliveryCompany, error)
	ListCompaniesFn func(ctx context.Context, activeOnly bool) ([]domain.DeliveryCompany, error)
}

func (m *mockDeliveryStore) GetCompany(ctx context.Context, id int64) (domain.DeliveryCompany, error) {
	if m.GetCompanyFn == nil {
		return domain.DeliveryCompany{}, errNotImplemented
	}
	return m.GetCompanyFn(ctx, id)
}

func (m *mockDeliveryStore) ListCompanies(ctx context.Context, activeOnly bool) ([]domain.DeliveryCompany, error) {
	if m.ListCompaniesFn == nil {
		return nil, errNotImplemented
	}
	return m.ListCompaniesFn(ctx, activeOnly)
}

// mockOrderStore implements domain.OrderStore for testing
type mockOrderStore struct {
	domain.OrderStore

	PlaceOrderFn    func(ctx context.Context, order domain.Order, decrements []domain.StockDecrement, cartID int64) (domain.Order, error)
	placeOrderCalls int
}

func (m *mockOrderStore) PlaceOrder(ctx context.Context, order domain.Order, decrements []domain.StockDecrement, cartID int64) (domain.Order, error) {
	m.placeOrderCalls++
	if m.PlaceOrderFn == nil {
		return domain.Order{}, errNotImplemented
	}
	return m.PlaceOrderFn(ctx, order, decrements, cartID)
}

// mockPublisher implements OrderEventPublisher for testing
type mockPublisher struct {
	err       error
	published []domain.Order
}

func (m *mockPublisher) OrderCreated(ctx context.Context, order domain.Order) error {
	m.published = append(m.published, order)
	return m.err
}
