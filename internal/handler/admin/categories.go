package admin

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// CategoryHandler manages catalog categories. The list page doubles as the
// create/edit form, so validation failures re-render in place.
type CategoryHandler struct {
	catalog  service.CatalogService
	renderer *handler.Renderer
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalog service.CatalogService, renderer *handler.Renderer) *CategoryHandler {
	return &CategoryHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// List handles GET /admin/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, nil, nil, "")
}

func (h *CategoryHandler) renderPage(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string, form *domain.CategoryInput, errorMsg string) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Categories"] = categories
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}
	if form != nil {
		data["Form"] = form
	}
	if errorMsg != "" {
		data["Error"] = errorMsg
	}

	h.renderer.RenderHTTP(w, "admin/categories", data)
}

// Create handles POST /admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("category.create", "Invalid form data"))
		return
	}

	input := domain.CategoryInput{
		Name: r.FormValue("name"),
		Slug: r.FormValue("slug"),
	}

	if _, err := h.catalog.CreateCategory(r.Context(), input); err != nil {
		h.handleWriteError(w, r, err, &input)
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// Update handles POST /admin/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID := parseID(r.PathValue("id"))
	if categoryID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("category.update", "Invalid form data"))
		return
	}

	input := domain.CategoryInput{
		Name: r.FormValue("name"),
		Slug: r.FormValue("slug"),
	}

	if err := h.catalog.UpdateCategory(r.Context(), categoryID, input); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			http.NotFound(w, r)
			return
		}
		h.handleWriteError(w, r, err, &input)
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// Delete handles POST /admin/categories/{id}/delete
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID := parseID(r.PathValue("id"))
	if categoryID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), categoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			http.NotFound(w, r)
			return
		}
		// Deleting a category with products attached conflicts.
		if domain.IsCode(err, domain.ECONFLICT) {
			h.renderPage(w, r, nil, nil, domain.ErrorMessage(err))
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *CategoryHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, form *domain.CategoryInput) {
	if fields := domain.GetValidationFields(err); fields != nil {
		h.renderPage(w, r, fields, form, "")
		return
	}
	if errors.Is(err, domain.ErrSlugTaken) {
		h.renderPage(w, r, map[string]string{"slug": "Slug is already in use"}, form, "")
		return
	}
	handler.ErrorResponse(w, r, err)
}
