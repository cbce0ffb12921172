package service

import (
	"context"
	"strings"
	"time"

	"github.com/atlasware/souq/internal/domain"
)

// CouponService resolves discount codes at checkout and backs the admin
// coupon screens. Coupons are stateless percentages; no redemption counting.
type CouponService interface {
	// Resolve normalizes the code (trim + uppercase) and returns the coupon
	// only if it is active and inside its validity window right now.
	// Any rejection is domain.ErrCouponNotFound; the caller learns nothing
	// about why a code was refused.
	Resolve(ctx context.Context, code string) (*domain.Coupon, error)

	// Admin operations.
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	GetCoupon(ctx context.Context, id int64) (*domain.Coupon, error)
	CreateCoupon(ctx context.Context, input domain.CouponInput) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id int64, input domain.CouponInput) error
	DeleteCoupon(ctx context.Context, id int64) error
}

type couponService struct {
	coupons domain.CouponStore
	now     func() time.Time
}

// NewCouponService creates a new CouponService instance
func NewCouponService(coupons domain.CouponStore) CouponService {
	return &couponService{
		coupons: coupons,
		now:     time.Now,
	}
}

func (s *couponService) Resolve(ctx context.Context, code string) (*domain.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, domain.ErrCouponNotFound
	}

	coupon, err := s.coupons.GetByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if !coupon.UsableAt(s.now()) {
		return nil, domain.ErrCouponNotFound
	}

	return &coupon, nil
}

func (s *couponService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.ListCoupons(ctx)
}

func (s *couponService) GetCoupon(ctx context.Context, id int64) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *couponService) CreateCoupon(ctx context.Context, input domain.CouponInput) (*domain.Coupon, error) {
	if err := validateCouponInput(&input); err != nil {
		return nil, err
	}

	coupon, err := s.coupons.CreateCoupon(ctx, input)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id int64, input domain.CouponInput) error {
	if err := validateCouponInput(&input); err != nil {
		return err
	}
	return s.coupons.UpdateCoupon(ctx, id, input)
}

func (s *couponService) DeleteCoupon(ctx context.Context, id int64) error {
	return s.coupons.DeleteCoupon(ctx, id)
}

// NormalizeCouponCode maps user input to the canonical stored form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCouponInput(input *domain.CouponInput) error {
	input.Code = NormalizeCouponCode(input.Code)

	fields := map[string]string{}
	if input.Code == "" {
		fields["code"] = "Code is required"
	}
	if input.Percent < 1 || input.Percent > 100 {
		fields["percent"] = "Percent must be between 1 and 100"
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		fields["ends_at"] = "End date must be after the start date"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "coupon.validate", Fields: fields}
	}
	return nil
}
