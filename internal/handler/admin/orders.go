package admin

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// OrderHandler handles the admin order screens
type OrderHandler struct {
	orderService service.OrderService
	renderer     *handler.Renderer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, renderer *handler.Renderer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		renderer:     renderer,
	}
}

// List handles GET /admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	// Optional status filter from the tab bar.
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if domain.ValidOrderStatus(status) {
		filtered := orders[:0:0]
		for _, order := range orders {
			if order.Status == status {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	data := BaseTemplateData(r)
	data["Orders"] = orders
	data["ActiveStatus"] = string(status)

	h.renderer.RenderHTTP(w, "admin/orders", data)
}

// Detail handles GET /admin/orders/{id}
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	orderID := parseID(r.PathValue("id"))
	if orderID == 0 {
		http.NotFound(w, r)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Order"] = order
	data["Statuses"] = []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
	}

	h.renderer.RenderHTTP(w, "admin/order_detail", data)
}

// UpdateStatus handles POST /admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := parseID(r.PathValue("id"))
	if orderID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("order.update_status", "Invalid form data"))
		return
	}

	status := domain.OrderStatus(r.FormValue("status"))
	if err := h.orderService.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(ctx).Info("order status updated",
		"order_id", orderID,
		"status", string(status),
	)

	http.Redirect(w, r, "/admin/orders/"+formatID(orderID), http.StatusSeeOther)
}
