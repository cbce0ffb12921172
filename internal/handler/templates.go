package handler

import (
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlasware/souq/internal/domain"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"year": func() int {
			return time.Now().Year()
		},
		// lineTotal multiplies a quantity by a centime unit price
		"lineTotal": func(quantity int32, unitPriceCentimes int64) int64 {
			return int64(quantity) * unitPriceCentimes
		},
		// formatMAD renders centime amounts as dirham strings for display
		"formatMAD": func(centimes int64) string {
			return domain.FormatMAD(centimes)
		},
		// madValue renders a bare dirham amount for form inputs, without
		// the currency suffix, so it round-trips through ParseMAD
		"madValue": func(centimes int64) string {
			return decimal.NewFromInt(centimes).Div(decimal.NewFromInt(100)).StringFixed(2)
		},
		// stars renders a 1-5 rating as a fixed-width glyph string
		"stars": func(rating int32) string {
			if rating < 0 {
				rating = 0
			}
			if rating > 5 {
				rating = 5
			}
			var out string
			for i := int32(1); i <= 5; i++ {
				if i <= rating {
					out += "★"
				} else {
					out += "☆"
				}
			}
			return out
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}
}
