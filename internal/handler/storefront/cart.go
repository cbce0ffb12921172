package storefront

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/cookie"
	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// CartHandler handles the cart page and the JSON cart endpoints. The client
// keeps its own cart copy in a cookie; the server only persists a cart after
// a successful validation pass.
type CartHandler struct {
	cartService service.CartService
	renderer    *handler.Renderer
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService, renderer *handler.Renderer) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		renderer:    renderer,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := BaseTemplateData(r)

	user := middleware.GetUserFromContext(ctx)
	if user != nil {
		summary, err := h.cartService.GetCartSummary(ctx, user.ID)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		data["Summary"] = summary
	} else {
		// Guests only have the client-side copy; validate it for display so
		// stale prices and quantities are flagged before login.
		lines := cookie.ReadCartLines(r)
		result, err := h.cartService.ValidateLines(ctx, lines)
		if err != nil && !domain.IsCode(err, domain.EINVALID) {
			handler.ErrorResponse(w, r, err)
			return
		}
		data["GuestLines"] = lines
		if result != nil {
			data["Problems"] = result.Problems
		}
	}

	h.renderer.RenderHTTP(w, "storefront/cart", data)
}

// cartRequest is the JSON body for the validate and sync endpoints.
type cartRequest struct {
	Lines []domain.CartLine `json:"lines"`
}

// Validate handles POST /api/cart/validate. It never writes anything; the
// client calls it to reconcile its cookie copy with current inventory.
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.validate", "Invalid request body"))
		return
	}

	result, err := h.cartService.ValidateLines(ctx, req.Lines)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Sync handles POST /api/cart/sync. On success the server cart becomes an
// exact mirror of the submitted lines at freshly computed prices. Conflicts
// come back as 409 with the per-line problem list.
func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		handler.ErrorResponse(w, r, domain.Unauthorized("cart.sync", "You must be logged in to save your cart"))
		return
	}

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.sync", "Invalid request body"))
		return
	}

	summary, err := h.cartService.SyncCart(ctx, user.ID, req.Lines)
	if err != nil {
		var conflict *domain.CartConflictError
		if errors.As(err, &conflict) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok":       false,
				"problems": conflict.Problems,
			})
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":                true,
		"subtotal_centimes": summary.SubtotalCentimes,
		"item_count":        summary.ItemCount,
	})
}
