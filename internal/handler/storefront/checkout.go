package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atlasware/souq/internal/cookie"
	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// CheckoutHandler handles the checkout page and order placement. Payment is
// cash on delivery, so placing the order is the end of the money flow here.
type CheckoutHandler struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
	userService     service.UserService
	couponService   service.CouponService
	delivery        domain.DeliveryStore
	cookies         *cookie.Config
	renderer        *handler.Renderer
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	cartService service.CartService,
	checkoutService service.CheckoutService,
	userService service.UserService,
	couponService service.CouponService,
	delivery domain.DeliveryStore,
	cookies *cookie.Config,
	renderer *handler.Renderer,
) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		userService:     userService,
		couponService:   couponService,
		delivery:        delivery,
		cookies:         cookies,
		renderer:        renderer,
	}
}

// Page handles GET /checkout
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/checkout", http.StatusSeeOther)
		return
	}

	summary, err := h.cartService.GetCartSummary(ctx, user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if len(summary.Lines) == 0 {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	h.renderPage(w, r, user.ID, summary, nil, nil)
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/checkout", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("checkout.submit", "Invalid form data"))
		return
	}

	params := service.PlaceOrderParams{
		UserID:            user.ID,
		AddressID:         parseID(r.FormValue("address_id")),
		DeliveryCompanyID: parseID(r.FormValue("delivery_company_id")),
		CouponCode:        r.FormValue("coupon_code"),
		Note:              r.FormValue("note"),
	}

	// A filled-in address form takes precedence over a saved address pick.
	if r.FormValue("ship_full_name") != "" || params.AddressID == 0 {
		params.AddressID = 0
		params.NewAddress = &domain.AddressInput{
			FullName: r.FormValue("ship_full_name"),
			Phone:    r.FormValue("ship_phone"),
			City:     r.FormValue("ship_city"),
			Street:   r.FormValue("ship_street"),
		}
	}

	order, err := h.checkoutService.PlaceOrder(ctx, params)
	if err != nil {
		h.handlePlaceOrderError(w, r, user.ID, err)
		return
	}

	logger.Info("order placed",
		"order_id", order.ID,
		"order_number", order.Number,
		"total_centimes", order.TotalCentimes,
	)

	// The server cart was cleared inside the commit; clear the client mirror
	// so the badge empties immediately.
	h.cookies.ClearCart(w)

	http.Redirect(w, r, fmt.Sprintf("/orders/%d?placed=1", order.ID), http.StatusSeeOther)
}

// handlePlaceOrderError re-renders the checkout form with the failure, or
// redirects to the cart when the cart itself is the problem.
func (h *CheckoutHandler) handlePlaceOrderError(w http.ResponseWriter, r *http.Request, userID int64, err error) {
	ctx := r.Context()

	if errors.Is(err, domain.ErrCartEmpty) {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	summary, sumErr := h.cartService.GetCartSummary(ctx, userID)
	if sumErr != nil {
		handler.ErrorResponse(w, r, sumErr)
		return
	}

	var conflict *domain.CartConflictError
	if errors.As(err, &conflict) {
		h.renderPage(w, r, userID, summary, conflict.Problems, nil)
		return
	}

	if fields := domain.GetValidationFields(err); fields != nil {
		h.renderPage(w, r, userID, summary, nil, fields)
		return
	}

	switch domain.ErrorCode(err) {
	case domain.EINVALID, domain.ENOTFOUND, domain.ECONFLICT, domain.EFORBIDDEN:
		data := h.pageData(r, userID, summary)
		data["Error"] = domain.ErrorMessage(err)
		h.renderer.RenderHTTP(w, "storefront/checkout", data)
	default:
		handler.ErrorResponse(w, r, err)
	}
}

func (h *CheckoutHandler) renderPage(w http.ResponseWriter, r *http.Request, userID int64, summary *domain.CartSummary, problems []domain.LineProblem, fieldErrors map[string]string) {
	data := h.pageData(r, userID, summary)
	if problems != nil {
		data["Problems"] = problems
	}
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}
	h.renderer.RenderHTTP(w, "storefront/checkout", data)
}

func (h *CheckoutHandler) pageData(r *http.Request, userID int64, summary *domain.CartSummary) map[string]interface{} {
	ctx := r.Context()

	data := BaseTemplateData(r)
	data["Summary"] = summary

	if addresses, err := h.userService.ListAddresses(ctx, userID); err == nil {
		data["Addresses"] = addresses
	}

	if companies, err := h.delivery.ListCompanies(ctx, true); err == nil {
		data["DeliveryCompanies"] = companies
	}

	return data
}

// parseID parses a form ID field, treating blanks and garbage as absent.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
