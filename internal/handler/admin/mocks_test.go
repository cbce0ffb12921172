package admin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var errNotImplemented = errors.New("not implemented in mock")

// mockCouponService implements service.CouponService for testing
type mockCouponService struct {
	service.CouponService

	ListCouponsFn  func(ctx context.Context) ([]domain.Coupon, error)
	GetCouponFn    func(ctx context.Context, id int64) (*domain.Coupon, error)
	CreateCouponFn func(ctx context.Context, input domain.CouponInput) (*domain.Coupon, error)
	UpdateCouponFn func(ctx context.Context, id int64, input domain.CouponInput) error
	DeleteCouponFn func(ctx context.Context, id int64) error
}

func (m *mockCouponService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if m.ListCouponsFn == nil {
		return nil, errNotImplemented
	}
	return m.ListCouponsFn(ctx)
}

func (m *mockCouponService) GetCoupon(ctx context.Context, id int64) (*domain.Coupon, error) {
	if m.GetCouponFn == nil {
		return nil, errNotImplemented
	}
	return m.GetCouponFn(ctx, id)
}

func (m *mockCouponService) CreateCoupon(ctx context.Context, input domain.CouponInput) (*domain.Coupon, error) {
	if m.CreateCouponFn == nil {
		return nil, errNotImplemented
	}
	return m.CreateCouponFn(ctx, input)
}

func (m *mockCouponService) UpdateCoupon(ctx context.Context, id int64, input domain.CouponInput) error {
	if m.UpdateCouponFn == nil {
		return errNotImplemented
	}
	return m.UpdateCouponFn(ctx, id, input)
}

func (m *mockCouponService) DeleteCoupon(ctx context.Context, id int64) error {
	if m.DeleteCouponFn == nil {
		return errNotImplemented
	}
	return m.DeleteCouponFn(ctx, id)
}

// mockOrderService implements service.OrderService for testing
type mockOrderService struct {
	service.OrderService

	ListOrdersFn   func(ctx context.Context) ([]domain.Order, error)
	GetOrderFn     func(ctx context.Context, orderID int64) (*domain.Order, error)
	UpdateStatusFn func(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

func (m *mockOrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if m.ListOrdersFn == nil {
		return nil, errNotImplemented
	}
	return m.ListOrdersFn(ctx)
}

func (m *mockOrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if m.GetOrderFn == nil {
		return nil, errNotImplemented
	}
	return m.GetOrderFn(ctx, orderID)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if m.UpdateStatusFn == nil {
		return errNotImplemented
	}
	return m.UpdateStatusFn(ctx, orderID, status)
}

// ============================================================================
// Test Helpers
// ============================================================================

// testRenderer builds a Renderer over a minimal admin template tree.
func testRenderer(t *testing.T) *handler.Renderer {
	t.Helper()

	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("layout.html", `{{define "base"}}{{block "content" .}}{{end}}{{end}}`)
	write(filepath.Join("admin", "layout.html"), `{{define "admin_base"}}{{block "content" .}}{{end}}{{end}}`)
	write(filepath.Join("admin", "coupons.html"), `{{define "content"}}{{range .Coupons}}[{{.Code}}]{{end}}{{end}}`)
	write(filepath.Join("admin", "coupon_form.html"), `{{define "content"}}form{{range $field, $msg := .FieldErrors}} {{$field}}={{$msg}}{{end}}{{end}}`)
	write(filepath.Join("admin", "orders.html"), `{{define "content"}}{{range .Orders}}[{{.Number}}:{{.Status}}]{{end}}{{end}}`)
	write(filepath.Join("admin", "order_detail.html"), `{{define "content"}}{{.Order.Number}} {{.Order.Status}}{{end}}`)

	renderer, err := handler.NewRenderer(dir)
	require.NoError(t, err)
	return renderer
}
