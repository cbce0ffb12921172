package service

import (
	"context"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeInventory(sizeID int64, stock int32, priceCentimes int64, discountPercent int32) domain.SizeInventory {
	return domain.SizeInventory{
		SizeID:          sizeID,
		VariantID:       sizeID * 10,
		ProductID:       sizeID * 100,
		SKU:             "SKU-1",
		ProductTitle:    "Argan Oil",
		VariantName:     "100ml",
		SizeLabel:       "Standard",
		Stock:           stock,
		PriceCentimes:   priceCentimes,
		DiscountPercent: discountPercent,
		Active:          true,
	}
}

func inventoryStore(rows ...domain.SizeInventory) *mockProductStore {
	return &mockProductStore{
		GetSizeInventoryFn: func(ctx context.Context, sizeIDs []int64) ([]domain.SizeInventory, error) {
			return rows, nil
		},
	}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name         string
		lines        []domain.CartLine
		inventory    []domain.SizeInventory
		wantOK       bool
		wantProblems []domain.LineProblem
	}{
		{
			name: "clean cart passes",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 2, UnitPriceCentimes: 10000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 5, 10000, 0)},
			wantOK:    true,
		},
		{
			name: "discounted price matches",
			lines: []domain.CartLine{
				// 12500 with 20% off = 10000
				{SizeID: 1, Quantity: 1, UnitPriceCentimes: 10000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 5, 12500, 20)},
			wantOK:    true,
		},
		{
			name: "missing size is unavailable",
			lines: []domain.CartLine{
				{SizeID: 99, Quantity: 1, UnitPriceCentimes: 10000},
			},
			inventory: nil,
			wantProblems: []domain.LineProblem{
				{SizeID: 99, Kind: domain.ProblemUnavailable},
			},
		},
		{
			name: "inactive size is unavailable",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 1, UnitPriceCentimes: 10000},
			},
			inventory: func() []domain.SizeInventory {
				inv := activeInventory(1, 5, 10000, 0)
				inv.Active = false
				return []domain.SizeInventory{inv}
			}(),
			wantProblems: []domain.LineProblem{
				{SizeID: 1, Kind: domain.ProblemUnavailable},
			},
		},
		{
			name: "zero stock is out of stock",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 1, UnitPriceCentimes: 10000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 0, 10000, 0)},
			wantProblems: []domain.LineProblem{
				{SizeID: 1, Kind: domain.ProblemOutOfStock},
			},
		},
		{
			name: "quantity above stock is clamped",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 5, UnitPriceCentimes: 10000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 3, 10000, 0)},
			wantProblems: []domain.LineProblem{
				{SizeID: 1, Kind: domain.ProblemQtyReduced, SuggestedQty: 3},
			},
		},
		{
			name: "stale client price is flagged",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 1, UnitPriceCentimes: 9000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 5, 10000, 0)},
			wantProblems: []domain.LineProblem{
				{SizeID: 1, Kind: domain.ProblemPriceChanged, CurrentPriceCentimes: 10000},
			},
		},
		{
			name: "quantity and price problems are both reported",
			lines: []domain.CartLine{
				{SizeID: 1, Quantity: 5, UnitPriceCentimes: 9000},
			},
			inventory: []domain.SizeInventory{activeInventory(1, 3, 10000, 0)},
			wantProblems: []domain.LineProblem{
				{SizeID: 1, Kind: domain.ProblemQtyReduced, SuggestedQty: 3},
				{SizeID: 1, Kind: domain.ProblemPriceChanged, CurrentPriceCentimes: 10000},
			},
		},
		{
			name:      "empty cart is valid",
			lines:     nil,
			inventory: nil,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCartService(inventoryStore(tt.inventory...), &mockCartStore{})

			result, err := svc.ValidateLines(context.Background(), tt.lines)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, result.OK)
			require.Len(t, result.Problems, len(tt.wantProblems))
			for i, want := range tt.wantProblems {
				got := result.Problems[i]
				assert.Equal(t, want.SizeID, got.SizeID)
				assert.Equal(t, want.Kind, got.Kind)
				assert.Equal(t, want.SuggestedQty, got.SuggestedQty)
				assert.Equal(t, want.CurrentPriceCentimes, got.CurrentPriceCentimes)
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}

func TestValidateLinesRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewCartService(inventoryStore(), &mockCartStore{})

	_, err := svc.ValidateLines(context.Background(), []domain.CartLine{
		{SizeID: 1, Quantity: 0, UnitPriceCentimes: 10000},
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestSyncCartPersistsServerPrices(t *testing.T) {
	// client remembers the correct price, but persisted lines must carry
	// the freshly computed one regardless
	inv := activeInventory(1, 10, 12500, 20) // final price 10000

	var gotLines []domain.PersistedLine
	carts := &mockCartStore{
		GetOrCreateCartFn: func(ctx context.Context, userID int64) (domain.Cart, error) {
			return domain.Cart{ID: 7, UserID: userID}, nil
		},
		ReplaceLinesFn: func(ctx context.Context, cartID int64, lines []domain.PersistedLine) error {
			gotLines = lines
			return nil
		},
		GetLinesWithInventoryFn: func(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error) {
			return []domain.CheckoutLine{
				{
					PersistedLine: domain.PersistedLine{
						CartID: cartID, SizeID: 1, Quantity: 3, UnitPriceCentimes: 10000,
					},
					Inventory: inv,
				},
			}, nil
		},
	}

	svc := NewCartService(inventoryStore(inv), carts)

	summary, err := svc.SyncCart(context.Background(), 42, []domain.CartLine{
		{SizeID: 1, Quantity: 3, UnitPriceCentimes: 10000},
	})
	require.NoError(t, err)

	require.Len(t, gotLines, 1)
	assert.Equal(t, int64(7), gotLines[0].CartID)
	assert.Equal(t, inv.ProductID, gotLines[0].ProductID)
	assert.Equal(t, inv.VariantID, gotLines[0].VariantID)
	assert.Equal(t, int64(10000), gotLines[0].UnitPriceCentimes)

	assert.Equal(t, int64(30000), summary.SubtotalCentimes)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestSyncCartAbortsOnConflictWithoutWrites(t *testing.T) {
	carts := &mockCartStore{}
	svc := NewCartService(inventoryStore(activeInventory(1, 2, 10000, 0)), carts)

	_, err := svc.SyncCart(context.Background(), 42, []domain.CartLine{
		{SizeID: 1, Quantity: 5, UnitPriceCentimes: 10000},
	})

	var conflict *domain.CartConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Problems, 1)
	assert.Equal(t, domain.ProblemQtyReduced, conflict.Problems[0].Kind)
	assert.Equal(t, 0, carts.replaceLinesCalls)
}

func TestGetCartSummaryWithoutCart(t *testing.T) {
	carts := &mockCartStore{
		GetCartByUserFn: func(ctx context.Context, userID int64) (domain.Cart, error) {
			return domain.Cart{}, domain.ErrCartNotFound
		},
	}
	svc := NewCartService(&mockProductStore{}, carts)

	summary, err := svc.GetCartSummary(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Zero(t, summary.SubtotalCentimes)
}
