package domain

import (
	"context"
	"time"
)

var ErrCouponNotFound = &Error{Code: ENOTFOUND, Message: "Invalid or expired coupon code"}

// Coupon is a percentage discount code with an optional validity window.
// Coupons are stateless: no redemption counting is modeled.
type Coupon struct {
	ID        int64
	Code      string
	Percent   int32
	StartsAt  *time.Time
	EndsAt    *time.Time
	Active    bool
	CreatedAt time.Time
}

// UsableAt reports whether the coupon can be applied at the given instant:
// active AND (startsAt null or <= t) AND (endsAt null or >= t).
func (c Coupon) UsableAt(t time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartsAt != nil && c.StartsAt.After(t) {
		return false
	}
	if c.EndsAt != nil && c.EndsAt.Before(t) {
		return false
	}
	return true
}

// CouponInput carries admin form data for coupon creation and updates.
type CouponInput struct {
	Code     string
	Percent  int32
	StartsAt *time.Time
	EndsAt   *time.Time
	Active   bool
}

// CouponStore is the persistence boundary for discount codes.
type CouponStore interface {
	// GetByCode looks up a coupon by its canonical (uppercase) code.
	// Returns ErrCouponNotFound when absent.
	GetByCode(ctx context.Context, code string) (Coupon, error)

	// Admin operations.
	ListCoupons(ctx context.Context) ([]Coupon, error)
	GetCoupon(ctx context.Context, id int64) (Coupon, error)
	CreateCoupon(ctx context.Context, input CouponInput) (Coupon, error)
	UpdateCoupon(ctx context.Context, id int64, input CouponInput) error
	DeleteCoupon(ctx context.Context, id int64) error
}
