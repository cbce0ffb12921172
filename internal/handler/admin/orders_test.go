package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOrderList_StatusFilter(t *testing.T) {
	orderService := &mockOrderService{
		ListOrdersFn: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{
				{ID: 1, Number: "SQ-1", Status: domain.OrderStatusPending},
				{ID: 2, Number: "SQ-2", Status: domain.OrderStatusShipped},
				{ID: 3, Number: "SQ-3", Status: domain.OrderStatusPending},
			}, nil
		},
	}
	h := NewOrderHandler(orderService, testRenderer(t))

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/admin/orders?status=pending", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "[SQ-1:pending]")
	assert.Contains(t, body, "[SQ-3:pending]")
	assert.NotContains(t, body, "SQ-2")
}

func TestAdminOrderList_UnknownStatusIgnored(t *testing.T) {
	orderService := &mockOrderService{
		ListOrdersFn: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{
				{ID: 1, Number: "SQ-1", Status: domain.OrderStatusPending},
				{ID: 2, Number: "SQ-2", Status: domain.OrderStatusShipped},
			}, nil
		},
	}
	h := NewOrderHandler(orderService, testRenderer(t))

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/admin/orders?status=bogus", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SQ-1")
	assert.Contains(t, w.Body.String(), "SQ-2")
}

func TestAdminOrderUpdateStatus(t *testing.T) {
	var gotID int64
	var gotStatus domain.OrderStatus
	orderService := &mockOrderService{
		UpdateStatusFn: func(ctx context.Context, orderID int64, status domain.OrderStatus) error {
			gotID = orderID
			gotStatus = status
			return nil
		},
	}
	h := NewOrderHandler(orderService, testRenderer(t))

	r := postForm("/admin/orders/7/status", url.Values{"status": {"confirmed"}})
	r.SetPathValue("id", "7")
	w := httptest.NewRecorder()
	h.UpdateStatus(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/orders/7", w.Header().Get("Location"))
	assert.Equal(t, int64(7), gotID)
	assert.Equal(t, domain.OrderStatusConfirmed, gotStatus)
}

func TestAdminOrderUpdateStatus_UnknownStatus(t *testing.T) {
	orderService := &mockOrderService{
		UpdateStatusFn: func(ctx context.Context, orderID int64, status domain.OrderStatus) error {
			return domain.Invalid("order.update_status", "Unknown order status")
		},
	}
	h := NewOrderHandler(orderService, testRenderer(t))

	r := postForm("/admin/orders/7/status", url.Values{"status": {"teleported"}})
	r.SetPathValue("id", "7")
	w := httptest.NewRecorder()
	h.UpdateStatus(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrderDetail_NotFound(t *testing.T) {
	orderService := &mockOrderService{
		GetOrderFn: func(ctx context.Context, orderID int64) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	h := NewOrderHandler(orderService, testRenderer(t))

	r := httptest.NewRequest(http.MethodGet, "/admin/orders/99", nil)
	r.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	h.Detail(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}
