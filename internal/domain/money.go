package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All monetary amounts are carried as MAD centimes (1 MAD = 100 centimes)
// so storage and comparison stay exact. Percentage math goes through
// shopspring/decimal and rounds half-up to the centime.

// FinalPriceCentimes computes the effective unit price after applying a
// percentage discount: base reduced by pct, rounded to the centime,
// floored at zero. Pure function of (base, pct); applying it twice to
// the same inputs yields the same result.
func FinalPriceCentimes(baseCentimes int64, discountPercent int32) int64 {
	if discountPercent <= 0 {
		if baseCentimes < 0 {
			return 0
		}
		return baseCentimes
	}

	base := decimal.NewFromInt(baseCentimes)
	factor := decimal.NewFromInt32(100 - discountPercent).Div(decimal.NewFromInt(100))

	final := base.Mul(factor).Round(0)
	if final.IsNegative() {
		return 0
	}
	return final.IntPart()
}

// DiscountCentimes computes the coupon discount amount on a subtotal,
// rounded to the centime. A zero or negative percent yields zero.
func DiscountCentimes(subtotalCentimes int64, couponPercent int32) int64 {
	if couponPercent <= 0 {
		return 0
	}

	subtotal := decimal.NewFromInt(subtotalCentimes)
	pct := decimal.NewFromInt32(couponPercent).Div(decimal.NewFromInt(100))

	return subtotal.Mul(pct).Round(0).IntPart()
}

// ParseMAD parses a dirham amount string ("199.50") into centimes,
// rounding to the centime. Negative amounts are rejected.
func ParseMAD(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// FormatMAD renders a centime amount as a dirham string, e.g. "199.50 MAD".
func FormatMAD(centimes int64) string {
	d := decimal.NewFromInt(centimes).Div(decimal.NewFromInt(100))
	return fmt.Sprintf("%s MAD", d.StringFixed(2))
}
