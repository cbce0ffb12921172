package service

import (
	"context"
	"testing"
	"time"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNormalizesCode(t *testing.T) {
	var askedFor string
	store := &mockCouponStore{
		GetByCodeFn: func(ctx context.Context, code string) (domain.Coupon, error) {
			askedFor = code
			return domain.Coupon{ID: 1, Code: code, Percent: 10, Active: true}, nil
		},
	}

	svc := NewCouponService(store)

	coupon, err := svc.Resolve(context.Background(), "  summer10 \n")
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", askedFor)
	assert.Equal(t, int32(10), coupon.Percent)
}

func TestResolveRejections(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		code   string
		coupon *domain.Coupon // nil means the store has no such code
	}{
		{
			name: "blank code",
			code: "   ",
		},
		{
			name:   "unknown code",
			code:   "NOPE",
			coupon: nil,
		},
		{
			name:   "inactive coupon",
			code:   "OFF10",
			coupon: &domain.Coupon{Code: "OFF10", Percent: 10, Active: false},
		},
		{
			name:   "expired coupon",
			code:   "OFF10",
			coupon: &domain.Coupon{Code: "OFF10", Percent: 10, Active: true, EndsAt: &yesterday},
		},
		{
			name:   "not yet started coupon",
			code:   "OFF10",
			coupon: &domain.Coupon{Code: "OFF10", Percent: 10, Active: true, StartsAt: &tomorrow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockCouponStore{
				GetByCodeFn: func(ctx context.Context, code string) (domain.Coupon, error) {
					if tt.coupon == nil {
						return domain.Coupon{}, domain.ErrCouponNotFound
					}
					return *tt.coupon, nil
				},
			}

			_, err := NewCouponService(store).Resolve(context.Background(), tt.code)
			require.ErrorIs(t, err, domain.ErrCouponNotFound)
			assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		})
	}
}

func TestResolveAcceptsOpenWindow(t *testing.T) {
	// null window means always usable while active
	store := &mockCouponStore{
		GetByCodeFn: func(ctx context.Context, code string) (domain.Coupon, error) {
			return domain.Coupon{Code: code, Percent: 25, Active: true}, nil
		},
	}

	coupon, err := NewCouponService(store).Resolve(context.Background(), "QUARTER")
	require.NoError(t, err)
	assert.Equal(t, int32(25), coupon.Percent)
}
