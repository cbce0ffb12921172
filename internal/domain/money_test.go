package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPriceCentimes(t *testing.T) {
	tests := []struct {
		name string
		base int64
		pct  int32
		want int64
	}{
		{name: "no discount", base: 10000, pct: 0, want: 10000},
		{name: "ten percent", base: 10000, pct: 10, want: 9000},
		{name: "rounds half up", base: 999, pct: 15, want: 849}, // 849.15 -> 849
		{name: "rounds up at half", base: 150, pct: 33, want: 101}, // 100.5 -> 101
		{name: "full discount floors at zero", base: 5000, pct: 100, want: 0},
		{name: "negative base floors at zero", base: -100, pct: 0, want: 0},
		{name: "negative percent ignored", base: 2500, pct: -10, want: 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FinalPriceCentimes(tt.base, tt.pct))
		})
	}
}

// Final price is a pure function of (base, pct): recomputing from the same
// inputs never compounds the discount.
func TestFinalPriceCentimesIdempotent(t *testing.T) {
	first := FinalPriceCentimes(19990, 25)
	second := FinalPriceCentimes(19990, 25)
	assert.Equal(t, first, second)
}

func TestDiscountCentimes(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		pct      int32
		want     int64
	}{
		{name: "ten percent of 200 MAD", subtotal: 20000, pct: 10, want: 2000},
		{name: "zero percent", subtotal: 20000, pct: 0, want: 0},
		{name: "negative percent", subtotal: 20000, pct: -5, want: 0},
		{name: "rounds to centime", subtotal: 999, pct: 33, want: 330}, // 329.67 -> 330
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountCentimes(tt.subtotal, tt.pct))
		})
	}
}

func TestFormatMAD(t *testing.T) {
	assert.Equal(t, "199.50 MAD", FormatMAD(19950))
	assert.Equal(t, "0.00 MAD", FormatMAD(0))
}
