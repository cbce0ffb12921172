package storefront

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// AddressHandler manages the user's saved shipping addresses
type AddressHandler struct {
	userService service.UserService
	renderer    *handler.Renderer
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(userService service.UserService, renderer *handler.Renderer) *AddressHandler {
	return &AddressHandler{
		userService: userService,
		renderer:    renderer,
	}
}

// List handles GET /account/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, nil, nil)
}

func (h *AddressHandler) renderPage(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string, form *domain.AddressInput) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/account/addresses", http.StatusSeeOther)
		return
	}

	addresses, err := h.userService.ListAddresses(ctx, user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Addresses"] = addresses
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}
	if form != nil {
		data["Form"] = form
	}

	h.renderer.RenderHTTP(w, "storefront/addresses", data)
}

// Create handles POST /account/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("address.create", "Invalid form data"))
		return
	}

	input := domain.AddressInput{
		FullName: r.FormValue("full_name"),
		Phone:    r.FormValue("phone"),
		City:     r.FormValue("city"),
		Street:   r.FormValue("street"),
	}

	if _, err := h.userService.CreateAddress(ctx, user.ID, input); err != nil {
		if fields := domain.GetValidationFields(err); fields != nil {
			// Re-render with the submitted values so the user can fix them
			h.renderPage(w, r, fields, &input)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/account/addresses", http.StatusSeeOther)
}

// Delete handles POST /account/addresses/{id}/delete
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	addressID := parseID(r.PathValue("id"))
	if addressID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.userService.DeleteAddress(ctx, user.ID, addressID); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/account/addresses", http.StatusSeeOther)
}
