package storefront

import (
	"net/http"

	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// WishlistHandler manages the user's saved-for-later products
type WishlistHandler struct {
	reviewService service.ReviewService
	renderer      *handler.Renderer
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(reviewService service.ReviewService, renderer *handler.Renderer) *WishlistHandler {
	return &WishlistHandler{
		reviewService: reviewService,
		renderer:      renderer,
	}
}

// List handles GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/wishlist", http.StatusSeeOther)
		return
	}

	items, err := h.reviewService.ListWishlist(ctx, user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Items"] = items

	h.renderer.RenderHTTP(w, "storefront/wishlist", data)
}

// Add handles POST /wishlist/{product_id}
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	productID := parseID(r.PathValue("product_id"))
	if productID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.reviewService.AddToWishlist(ctx, user.ID, productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, sanitizeReturnTo(r.FormValue("return_to")), http.StatusSeeOther)
}

// Remove handles POST /wishlist/{product_id}/remove
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	productID := parseID(r.PathValue("product_id"))
	if productID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.reviewService.RemoveFromWishlist(ctx, user.ID, productID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}
