package storefront

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// ProductListHandler handles the product listing page
type ProductListHandler struct {
	catalog  service.CatalogService
	renderer *handler.Renderer
}

// NewProductListHandler creates a new product list handler
func NewProductListHandler(catalog service.CatalogService, renderer *handler.Renderer) *ProductListHandler {
	return &ProductListHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /products
func (h *ProductListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.ProductFilter{
		CategorySlug: r.URL.Query().Get("category"),
		Query:        r.URL.Query().Get("q"),
	}

	products, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Products"] = products
	data["Categories"] = categories
	data["ActiveCategory"] = filter.CategorySlug
	data["Query"] = filter.Query

	h.renderer.RenderHTTP(w, "storefront/products", data)
}

// ProductDetailHandler handles the product detail page
type ProductDetailHandler struct {
	catalog  service.CatalogService
	reviews  service.ReviewService
	renderer *handler.Renderer
}

// NewProductDetailHandler creates a new product detail handler
func NewProductDetailHandler(catalog service.CatalogService, reviews service.ReviewService, renderer *handler.Renderer) *ProductDetailHandler {
	return &ProductDetailHandler{
		catalog:  catalog,
		reviews:  reviews,
		renderer: renderer,
	}
}

// ServeHTTP handles GET /products/{slug}
func (h *ProductDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := r.PathValue("slug")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	reviews, err := h.reviews.ListReviews(ctx, product.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var avgRating float64
	if len(reviews) > 0 {
		var sum int64
		for _, review := range reviews {
			sum += int64(review.Rating)
		}
		avgRating = float64(sum) / float64(len(reviews))
	}

	data := BaseTemplateData(r)
	data["Product"] = product
	data["Reviews"] = reviews
	data["AverageRating"] = avgRating

	h.renderer.RenderHTTP(w, "storefront/product_detail", data)
}
