package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(target, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	return r
}

func TestCartValidate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		result       *domain.ValidationResult
		wantStatus   int
		wantOK       bool
		wantProblems int
	}{
		{
			name:       "clean cart",
			body:       `{"lines":[{"product_id":1,"variant_id":10,"size_id":100,"quantity":2,"unit_price_centimes":9900}]}`,
			result:     &domain.ValidationResult{OK: true},
			wantStatus: http.StatusOK,
			wantOK:     true,
		},
		{
			name: "stale cart reports problems",
			body: `{"lines":[{"product_id":1,"variant_id":10,"size_id":100,"quantity":5,"unit_price_centimes":9900}]}`,
			result: &domain.ValidationResult{
				OK: false,
				Problems: []domain.LineProblem{
					{SizeID: 100, Kind: domain.ProblemQtyReduced, Message: "Only 3 of Argan Oil left", SuggestedQty: 3},
					{SizeID: 100, Kind: domain.ProblemPriceChanged, Message: "The price of Argan Oil has changed", CurrentPriceCentimes: 10900},
				},
			},
			wantStatus:   http.StatusOK,
			wantOK:       false,
			wantProblems: 2,
		},
		{
			name:       "empty cart",
			body:       `{"lines":[]}`,
			result:     &domain.ValidationResult{OK: true},
			wantStatus: http.StatusOK,
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLines []domain.CartLine
			cartService := &mockCartService{
				ValidateLinesFn: func(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error) {
					gotLines = lines
					return tt.result, nil
				},
			}
			h := NewCartHandler(cartService, nil)

			w := httptest.NewRecorder()
			h.Validate(w, postJSON("/api/cart/validate", tt.body))

			require.Equal(t, tt.wantStatus, w.Code)

			var resp domain.ValidationResult
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantOK, resp.OK)
			assert.Len(t, resp.Problems, tt.wantProblems)

			var req cartRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, req.Lines, gotLines)
		})
	}
}

func TestCartValidate_BadBody(t *testing.T) {
	h := NewCartHandler(&mockCartService{}, nil)

	w := httptest.NewRecorder()
	h.Validate(w, postJSON("/api/cart/validate", `{"lines":`))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid", resp.Error.Code)
}

func TestCartSync_RequiresLogin(t *testing.T) {
	h := NewCartHandler(&mockCartService{}, nil)

	w := httptest.NewRecorder()
	h.Sync(w, postJSON("/api/cart/sync", `{"lines":[]}`))

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "unauthorized", resp.Error.Code)
}

func TestCartSync_Conflict(t *testing.T) {
	cartService := &mockCartService{
		SyncCartFn: func(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error) {
			return nil, &domain.CartConflictError{
				Problems: []domain.LineProblem{
					{SizeID: 100, Kind: domain.ProblemOutOfStock, Message: "Argan Oil is out of stock"},
				},
			}
		},
	}
	h := NewCartHandler(cartService, nil)

	r := withUser(postJSON("/api/cart/sync", `{"lines":[{"size_id":100,"quantity":1,"unit_price_centimes":9900}]}`), domain.User{ID: 7})
	w := httptest.NewRecorder()
	h.Sync(w, r)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		OK       bool                 `json:"ok"`
		Problems []domain.LineProblem `json:"problems"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.OK)
	require.Len(t, resp.Problems, 1)
	assert.Equal(t, domain.ProblemOutOfStock, resp.Problems[0].Kind)
}

func TestCartSync_Success(t *testing.T) {
	var gotUserID int64
	cartService := &mockCartService{
		SyncCartFn: func(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error) {
			gotUserID = userID
			return &domain.CartSummary{
				SubtotalCentimes: 19800,
				ItemCount:        2,
			}, nil
		},
	}
	h := NewCartHandler(cartService, nil)

	r := withUser(postJSON("/api/cart/sync", `{"lines":[{"size_id":100,"quantity":2,"unit_price_centimes":9900}]}`), domain.User{ID: 7})
	w := httptest.NewRecorder()
	h.Sync(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotUserID)

	var resp struct {
		OK               bool  `json:"ok"`
		SubtotalCentimes int64 `json:"subtotal_centimes"`
		ItemCount        int   `json:"item_count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.OK)
	assert.Equal(t, int64(19800), resp.SubtotalCentimes)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestCartView_LoggedIn(t *testing.T) {
	cartService := &mockCartService{
		GetCartSummaryFn: func(ctx context.Context, userID int64) (*domain.CartSummary, error) {
			return &domain.CartSummary{ItemCount: 3}, nil
		},
	}
	h := NewCartHandler(cartService, testRenderer(t))

	r := withUser(httptest.NewRequest(http.MethodGet, "/cart", nil), domain.User{ID: 7})
	w := httptest.NewRecorder()
	h.View(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 items")
}

func TestCartView_Guest(t *testing.T) {
	validateCalled := false
	cartService := &mockCartService{
		ValidateLinesFn: func(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error) {
			validateCalled = true
			return &domain.ValidationResult{OK: true}, nil
		},
	}
	h := NewCartHandler(cartService, testRenderer(t))

	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, validateCalled)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("cart:")))
}
