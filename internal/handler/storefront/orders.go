package storefront

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// OrderHandler shows the authenticated user's order history and details
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

// List handles GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/orders", http.StatusSeeOther)
		return
	}

	orders, err := h.orderService.ListForUser(ctx, user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Orders"] = orders

	h.renderer.RenderHTTP(w, "storefront/orders", data)
}

// Detail handles GET /orders/{id}
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	orderID := parseID(r.PathValue("id"))
	if orderID == 0 {
		http.NotFound(w, r)
		return
	}

	order, err := h.orderService.GetForUser(ctx, orderID, user.ID)
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
	data["JustPlaced"] = r.URL.Query().Get("placed") == "1"

	h.renderer.RenderHTTP(w, "storefront/order_detail", data)
}
