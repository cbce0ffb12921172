package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// ReviewHandler handles review submission and deletion
type ReviewHandler struct {
	reviewService service.ReviewService
	catalog       service.CatalogService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService service.ReviewService, catalog service.CatalogService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		catalog:       catalog,
	}
}

// Submit handles POST /products/{slug}/reviews
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/products/"+r.PathValue("slug"), http.StatusSeeOther)
		return
	}

	product, err := h.catalog.GetProductBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("review.submit", "Invalid form data"))
		return
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.ErrInvalidRating)
		return
	}

	if _, err := h.reviewService.SubmitReview(ctx, *user, product.ID, int32(rating), r.FormValue("comment")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/products/"+product.Slug, http.StatusSeeOther)
}

// Delete handles POST /reviews/{id}/delete
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	reviewID := parseID(r.PathValue("id"))
	if reviewID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.reviewService.DeleteReview(ctx, user.ID, reviewID); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, sanitizeReturnTo(r.FormValue("return_to")), http.StatusSeeOther)
}
