package admin

import (
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// DashboardHandler handles the admin dashboard page
type DashboardHandler struct {
	orderService service.OrderService
	catalog      service.CatalogService
	renderer     *handler.Renderer
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(orderService service.OrderService, catalog service.CatalogService, renderer *handler.Renderer) *DashboardHandler {
	return &DashboardHandler{
		orderService: orderService,
		catalog:      catalog,
		renderer:     renderer,
	}
}

// ServeHTTP handles GET /admin
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orderService.ListOrders(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	stats := map[string]interface{}{}
	counts := map[domain.OrderStatus]int{}
	var revenueCentimes int64
	for _, order := range orders {
		counts[order.Status]++
		if order.Status != domain.OrderStatusCancelled {
			revenueCentimes += order.TotalCentimes
		}
	}
	stats["TotalOrders"] = len(orders)
	stats["PendingOrders"] = counts[domain.OrderStatusPending]
	stats["ConfirmedOrders"] = counts[domain.OrderStatusConfirmed]
	stats["ShippedOrders"] = counts[domain.OrderStatusShipped]
	stats["DeliveredOrders"] = counts[domain.OrderStatusDelivered]
	stats["CancelledOrders"] = counts[domain.OrderStatusCancelled]
	stats["Revenue"] = domain.FormatMAD(revenueCentimes)

	products, err := h.catalog.ListAllProducts(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	recent := orders
	if len(recent) > 10 {
		recent = recent[:10]
	}

	data := BaseTemplateData(r)
	data["OrderStats"] = stats
	data["ProductCount"] = len(products)
	data["RecentOrders"] = recent

	h.renderer.RenderHTTP(w, "admin/dashboard", data)
}
