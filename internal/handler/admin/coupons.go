package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/service"
)

// couponDateLayout matches the value format of <input type="date">.
const couponDateLayout = "2006-01-02"

// CouponHandler manages discount codes
type CouponHandler struct {
	couponService service.CouponService
	renderer      *handler.Renderer
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService service.CouponService, renderer *handler.Renderer) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		renderer:      renderer,
	}
}

// List handles GET /admin/coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponService.ListCoupons(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(r)
	data["Coupons"] = coupons

	h.renderer.RenderHTTP(w, "admin/coupons", data)
}

// New handles GET /admin/coupons/new
func (h *CouponHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil, nil, nil)
}

// Edit handles GET /admin/coupons/{id}/edit
func (h *CouponHandler) Edit(w http.ResponseWriter, r *http.Request) {
	couponID := parseID(r.PathValue("id"))
	if couponID == 0 {
		http.NotFound(w, r)
		return
	}

	coupon, err := h.couponService.GetCoupon(r.Context(), couponID)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	h.renderForm(w, r, coupon, nil, nil)
}

// renderForm renders the create/edit form. When form is non-nil it carries
// the submitted values back after a validation failure; otherwise the
// existing coupon (nil for the create form) fills the fields.
func (h *CouponHandler) renderForm(w http.ResponseWriter, r *http.Request, coupon *domain.Coupon, form *domain.CouponInput, fieldErrors map[string]string) {
	data := BaseTemplateData(r)
	if coupon != nil {
		data["Coupon"] = coupon
	}
	if form != nil {
		data["Form"] = form
	}
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}

	h.renderer.RenderHTTP(w, "admin/coupon_form", data)
}

// Create handles POST /admin/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if _, err := h.couponService.CreateCoupon(r.Context(), input); err != nil {
		h.handleWriteError(w, r, err, nil, &input)
		return
	}

	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
}

// Update handles POST /admin/coupons/{id}
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	couponID := parseID(r.PathValue("id"))
	if couponID == 0 {
		http.NotFound(w, r)
		return
	}

	coupon, err := h.couponService.GetCoupon(r.Context(), couponID)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	input, err := h.parseInput(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.couponService.UpdateCoupon(r.Context(), couponID, input); err != nil {
		h.handleWriteError(w, r, err, coupon, &input)
		return
	}

	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
}

// Delete handles POST /admin/coupons/{id}/delete
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	couponID := parseID(r.PathValue("id"))
	if couponID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.couponService.DeleteCoupon(r.Context(), couponID); err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
}

func (h *CouponHandler) parseInput(r *http.Request) (domain.CouponInput, error) {
	if err := r.ParseForm(); err != nil {
		return domain.CouponInput{}, domain.Invalid("coupon.form", "Invalid form data")
	}

	percent, _ := strconv.ParseInt(r.FormValue("percent"), 10, 32)

	input := domain.CouponInput{
		Code:    r.FormValue("code"),
		Percent: int32(percent),
		Active:  r.FormValue("active") != "",
	}

	var err error
	if input.StartsAt, err = parseDate(r.FormValue("starts_at")); err != nil {
		return domain.CouponInput{}, domain.Invalid("coupon.form", "Invalid start date")
	}
	if input.EndsAt, err = parseDate(r.FormValue("ends_at")); err != nil {
		return domain.CouponInput{}, domain.Invalid("coupon.form", "Invalid end date")
	}

	return input, nil
}

func (h *CouponHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, coupon *domain.Coupon, form *domain.CouponInput) {
	if fields := domain.GetValidationFields(err); fields != nil {
		h.renderForm(w, r, coupon, form, fields)
		return
	}
	if domain.IsCode(err, domain.ECONFLICT) {
		h.renderForm(w, r, coupon, form, map[string]string{"code": "Code is already in use"})
		return
	}
	handler.ErrorResponse(w, r, err)
}

// parseDate parses an optional date form value. Empty means unset.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(couponDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
