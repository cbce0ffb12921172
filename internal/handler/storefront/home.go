package storefront

import (
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// HomeHandler handles the storefront homepage
type HomeHandler struct {
	catalog  service.CatalogService
	renderer *handler.Renderer
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(catalog service.CatalogService, renderer *handler.Renderer) *HomeHandler {
	return &HomeHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.catalog.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	// The home page shows a small featured strip, not the whole catalog
	featured := products
	if len(featured) > 6 {
		featured = featured[:6]
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["FeaturedProducts"] = featured
	data["Categories"] = categories

	h.renderer.RenderHTTP(w, "storefront/home", data)
}
