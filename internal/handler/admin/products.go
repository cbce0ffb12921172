package admin

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// ProductHandler manages the admin catalog screens: list, create/edit form,
// and the detail page where variants and sizes are edited inline.
type ProductHandler struct {
	catalog  service.CatalogService
	renderer *handler.Renderer
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog service.CatalogService, renderer *handler.Renderer) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// List handles GET /admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Products"] = products

	h.renderer.RenderHTTP(w, "admin/products", data)
}

// New handles GET /admin/products/new
func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil, nil, nil)
}

// Edit handles GET /admin/products/{id}/edit
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, product, nil, nil)
}

// Detail handles GET /admin/products/{id}. The page lists the product's
// variants and sizes with inline edit forms.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	data := BaseTemplateData(r)
	data["Product"] = product

	h.renderer.RenderHTTP(w, "admin/product_detail", data)
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		h.handleWriteError(w, r, err, nil, &input)
		return
	}

	http.Redirect(w, r, "/admin/products/"+formatID(product.ID), http.StatusSeeOther)
}

// Update handles POST /admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	input, err := h.parseInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.catalog.UpdateProduct(r.Context(), product.ID, input); err != nil {
		h.handleWriteError(w, r, err, product, &input)
		return
	}

	http.Redirect(w, r, "/admin/products/"+formatID(product.ID), http.StatusSeeOther)
}

// Delete handles POST /admin/products/{id}/delete
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := parseID(r.PathValue("id"))
	if productID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (h *ProductHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	productID := parseID(r.PathValue("id"))
	if productID == 0 {
		http.NotFound(w, r)
		return nil, false
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		handler.ErrorResponse(w, r, err)
		return nil, false
	}

	return product, true
}

func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, product *domain.Product, form *domain.ProductInput, fieldErrors map[string]string) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Categories"] = categories
	if product != nil {
		data["Product"] = product
	}
	if form != nil {
		data["Form"] = form
	}
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}

	h.renderer.RenderHTTP(w, "admin/product_form", data)
}

func (h *ProductHandler) parseInput(r *http.Request) (domain.ProductInput, error) {
	if err := r.ParseForm(); err != nil {
		return domain.ProductInput{}, domain.Invalid("product.form", "Invalid form data")
	}

	return domain.ProductInput{
		CategoryID:  parseID(r.FormValue("category_id")),
		Title:       r.FormValue("title"),
		Slug:        r.FormValue("slug"),
		Description: r.FormValue("description"),
		Active:      r.FormValue("active") != "",
	}, nil
}

func (h *ProductHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, product *domain.Product, form *domain.ProductInput) {
	if fields := domain.GetValidationFields(err); fields != nil {
		h.renderForm(w, r, product, form, fields)
		return
	}
	if errors.Is(err, domain.ErrSlugTaken) {
		h.renderForm(w, r, product, form, map[string]string{"slug": "Slug is already in use"})
		return
	}
	handler.ErrorResponse(w, r, err)
}
