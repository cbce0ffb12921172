package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// VariantHandler manages variants and their sizes. All forms post from the
// product detail page and redirect back to it.
type VariantHandler struct {
	catalog service.CatalogService
}

// NewVariantHandler creates a new variant handler
func NewVariantHandler(catalog service.CatalogService) *VariantHandler {
	return &VariantHandler{catalog: catalog}
}

// CreateVariant handles POST /admin/products/{id}/variants
func (h *VariantHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID := parseID(r.PathValue("id"))
	if productID == 0 {
		http.NotFound(w, r)
		return
	}

	input, err := parseVariantInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.catalog.CreateVariant(r.Context(), productID, input); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/products/"+formatID(productID), http.StatusSeeOther)
}

// UpdateVariant handles POST /admin/variants/{id}
func (h *VariantHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	variantID := parseID(r.PathValue("id"))
	if variantID == 0 {
		http.NotFound(w, r)
		return
	}

	input, err := parseVariantInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.catalog.UpdateVariant(r.Context(), variantID, input); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// CreateSize handles POST /admin/variants/{id}/sizes
func (h *VariantHandler) CreateSize(w http.ResponseWriter, r *http.Request) {
	variantID := parseID(r.PathValue("id"))
	if variantID == 0 {
		http.NotFound(w, r)
		return
	}

	input, err := parseSizeInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.catalog.CreateSize(r.Context(), variantID, input); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// UpdateSize handles POST /admin/sizes/{id}. This is where stock and
// discount edits land.
func (h *VariantHandler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	sizeID := parseID(r.PathValue("id"))
	if sizeID == 0 {
		http.NotFound(w, r)
		return
	}

	input, err := parseSizeInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.catalog.UpdateSize(r.Context(), sizeID, input); err != nil {
		if errors.Is(err, domain.ErrSizeNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

func parseVariantInput(r *http.Request) (domain.VariantInput, error) {
	if err := r.ParseForm(); err != nil {
		return domain.VariantInput{}, domain.Invalid("variant.form", "Invalid form data")
	}

	return domain.VariantInput{
		Name:         r.FormValue("name"),
		ImageURL:     r.FormValue("image_url"),
		FreeDelivery: r.FormValue("free_delivery") != "",
		Active:       r.FormValue("active") != "",
	}, nil
}

func parseSizeInput(r *http.Request) (domain.SizeInput, error) {
	if err := r.ParseForm(); err != nil {
		return domain.SizeInput{}, domain.Invalid("size.form", "Invalid form data")
	}

	priceCentimes, err := domain.ParseMAD(r.FormValue("price"))
	if err != nil {
		return domain.SizeInput{}, domain.Invalid("size.form", "Invalid price")
	}

	stock, err := strconv.ParseInt(r.FormValue("stock"), 10, 32)
	if err != nil || stock < 0 {
		return domain.SizeInput{}, domain.Invalid("size.form", "Invalid stock quantity")
	}

	discount, _ := strconv.ParseInt(r.FormValue("discount_percent"), 10, 32)

	return domain.SizeInput{
		Label:           r.FormValue("label"),
		SKU:             r.FormValue("sku"),
		Stock:           int32(stock),
		PriceCentimes:   priceCentimes,
		DiscountPercent: int32(discount),
		Active:          r.FormValue("active") != "",
	}, nil
}

// redirectTarget returns the product detail page the form came from, falling
// back to the product list when the form omits it.
func redirectTarget(r *http.Request) string {
	if productID := parseID(r.FormValue("product_id")); productID != 0 {
		return "/admin/products/" + formatID(productID)
	}
	return "/admin/products"
}
