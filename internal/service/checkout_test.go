package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	carts     *mockCartStore
	users     *mockUserStore
	delivery  *mockDeliveryStore
	orders    *mockOrderStore
	coupons   *mockCouponStore
	publisher *mockPublisher

	svc CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	validator, err := validation.New()
	require.NoError(t, err)

	f := &checkoutFixture{
		carts:     &mockCartStore{},
		users:     &mockUserStore{},
		delivery:  &mockDeliveryStore{},
		orders:    &mockOrderStore{},
		coupons:   &mockCouponStore{},
		publisher: &mockPublisher{},
	}

	f.svc = NewCheckoutService(
		f.carts, f.users, f.delivery, f.orders,
		NewCouponService(f.coupons),
		validator, f.publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *checkoutFixture) withCart(lines ...domain.CheckoutLine) {
	f.carts.GetCartByUserFn = func(ctx context.Context, userID int64) (domain.Cart, error) {
		return domain.Cart{ID: 7, UserID: userID}, nil
	}
	f.carts.GetLinesWithInventoryFn = func(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error) {
		return lines, nil
	}
}

func (f *checkoutFixture) withAddress(userID int64) {
	f.users.GetAddressFn = func(ctx context.Context, id int64) (domain.Address, error) {
		return domain.Address{
			ID:       id,
			UserID:   userID,
			FullName: "Yassine Alami",
			Phone:    "0612345678",
			City:     "Casablanca",
			Street:   "12 Rue des Orangers",
		}, nil
	}
}

func (f *checkoutFixture) withDelivery(feeCentimes int64) {
	f.delivery.GetCompanyFn = func(ctx context.Context, id int64) (domain.DeliveryCompany, error) {
		return domain.DeliveryCompany{ID: id, Name: "Amana Express", FeeCentimes: feeCentimes, Active: true}, nil
	}
}

func (f *checkoutFixture) withPassthroughOrders() {
	f.orders.PlaceOrderFn = func(ctx context.Context, order domain.Order, decrements []domain.StockDecrement, cartID int64) (domain.Order, error) {
		order.ID = 1001
		return order, nil
	}
}

func checkoutLine(sizeID int64, qty int32, priceCentimes int64, discountPercent int32) domain.CheckoutLine {
	inv := activeInventory(sizeID, 100, priceCentimes, discountPercent)
	return domain.CheckoutLine{
		PersistedLine: domain.PersistedLine{
			CartID:            7,
			ProductID:         inv.ProductID,
			VariantID:         inv.VariantID,
			SizeID:            sizeID,
			Quantity:          qty,
			UnitPriceCentimes: inv.FinalPriceCentimes(),
		},
		Inventory: inv,
	}
}

func TestPlaceOrderTotals(t *testing.T) {
	f := newCheckoutFixture(t)

	// 100.00 MAD line + (125.00 MAD at 20% off = 100.00) line
	f.withCart(
		checkoutLine(1, 1, 10000, 0),
		checkoutLine(2, 1, 12500, 20),
	)
	f.withAddress(42)
	f.withDelivery(3000)
	f.withPassthroughOrders()

	f.coupons.GetByCodeFn = func(ctx context.Context, code string) (domain.Coupon, error) {
		return domain.Coupon{Code: code, Percent: 10, Active: true}, nil
	}

	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID:            42,
		AddressID:         5,
		DeliveryCompanyID: 3,
		CouponCode:        "off10",
	})
	require.NoError(t, err)

	// subtotal 200.00, discount 20.00, fee 30.00, total 210.00
	assert.Equal(t, int64(20000), order.SubtotalCentimes)
	assert.Equal(t, int64(2000), order.DiscountCentimes)
	assert.Equal(t, int64(3000), order.ShippingFeeCentimes)
	assert.Equal(t, int64(21000), order.TotalCentimes)

	assert.Equal(t, "OFF10", order.CouponCode)
	assert.Equal(t, int32(10), order.CouponPercent)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "SQ-"))

	// address fields are snapshotted onto the order
	assert.Equal(t, "Yassine Alami", order.ShipFullName)
	assert.Equal(t, "Casablanca", order.ShipCity)
	assert.Equal(t, "Amana Express", order.DeliveryCompany)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, int64(10000), order.Lines[0].UnitPriceCentimes)
	assert.Equal(t, int64(10000), order.Lines[1].UnitPriceCentimes)

	// the committed order was announced
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, int64(1001), f.publisher.published[0].ID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart() // no lines

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{UserID: 42, AddressID: 5})
	require.ErrorIs(t, err, domain.ErrCartEmpty)
	assert.Equal(t, 0, f.orders.placeOrderCalls)
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{UserID: 0})
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestPlaceOrderForeignAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 1, 10000, 0))
	f.withAddress(99) // belongs to someone else

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{UserID: 42, AddressID: 5})
	require.ErrorIs(t, err, domain.ErrNotAddressOwner)
	assert.Equal(t, 0, f.orders.placeOrderCalls)
}

func TestPlaceOrderValidatesNewAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 1, 10000, 0))

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID: 42,
		NewAddress: &domain.AddressInput{
			FullName: "Yassine Alami",
			Phone:    "12345", // not a Moroccan mobile number
			City:     "Casablanca",
			Street:   "12 Rue des Orangers",
		},
	})
	require.Error(t, err)
	require.True(t, domain.IsValidationError(err))

	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "Phone")
}

func TestPlaceOrderRequiresDeliveryCompany(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 1, 10000, 0))
	f.withAddress(42)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{UserID: 42, AddressID: 5})
	require.ErrorIs(t, err, domain.ErrDeliveryCompanyNotFound)
}

func TestPlaceOrderFreeDeliverySkipsFee(t *testing.T) {
	f := newCheckoutFixture(t)

	line := checkoutLine(1, 2, 10000, 0)
	line.Inventory.FreeDelivery = true
	f.withCart(line)
	f.withAddress(42)
	f.withPassthroughOrders()

	// no delivery company selected at all: fine when every line ships free
	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{UserID: 42, AddressID: 5})
	require.NoError(t, err)
	assert.Zero(t, order.ShippingFeeCentimes)
	assert.Equal(t, int64(20000), order.TotalCentimes)
}

func TestPlaceOrderStaleCartConflict(t *testing.T) {
	f := newCheckoutFixture(t)

	line := checkoutLine(1, 5, 10000, 0)
	line.Inventory.Stock = 2 // depleted since the last sync
	f.withCart(line)
	f.withAddress(42)
	f.withDelivery(3000)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID: 42, AddressID: 5, DeliveryCompanyID: 3,
	})

	var conflict *domain.CartConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Problems, 1)
	assert.Equal(t, domain.ProblemQtyReduced, conflict.Problems[0].Kind)
	assert.Equal(t, 0, f.orders.placeOrderCalls)
}

func TestPlaceOrderLostStockRace(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 2, 10000, 0))
	f.withAddress(42)
	f.withDelivery(3000)

	f.orders.PlaceOrderFn = func(ctx context.Context, order domain.Order, decrements []domain.StockDecrement, cartID int64) (domain.Order, error) {
		return domain.Order{}, domain.ErrInsufficientStock
	}

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID: 42, AddressID: 5, DeliveryCompanyID: 3,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// nothing to announce when the commit rolled back
	assert.Empty(t, f.publisher.published)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 1, 10000, 0))
	f.withAddress(42)
	f.withDelivery(3000)
	f.withPassthroughOrders()

	f.publisher.err = assert.AnError

	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID: 42, AddressID: 5, DeliveryCompanyID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), order.ID)
}

func TestPlaceOrderIgnoresClientCouponPercent(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withCart(checkoutLine(1, 1, 10000, 0))
	f.withAddress(42)
	f.withDelivery(3000)
	f.withPassthroughOrders()

	// the store says 5%, whatever the client believed
	f.coupons.GetByCodeFn = func(ctx context.Context, code string) (domain.Coupon, error) {
		return domain.Coupon{Code: code, Percent: 5, Active: true}, nil
	}

	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderParams{
		UserID: 42, AddressID: 5, DeliveryCompanyID: 3, CouponCode: "WHATEVER",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), order.CouponPercent)
	assert.Equal(t, int64(500), order.DiscountCentimes)
}
