package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atlasware/souq/internal/domain"
	"github.com/samber/lo"
)

// CartService provides business logic for cart validation and persistence.
//
// The client keeps a cart mirror in a cookie and submits it for validation;
// nothing the client sends is trusted for money math. The persisted cart is
// always an exact mirror of the last successful validation pass.
type CartService interface {
	// ValidateLines checks client lines against authoritative inventory.
	// It performs no writes.
	ValidateLines(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error)

	// SyncCart validates then persists the lines as the user's cart,
	// replacing whatever was stored before. Validation problems abort with
	// *domain.CartConflictError.
	SyncCart(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error)

	// GetCartSummary returns the user's persisted cart with display details
	// and totals. A user without a cart gets an empty summary.
	GetCartSummary(ctx context.Context, userID int64) (*domain.CartSummary, error)
}

type cartService struct {
	products domain.ProductStore
	carts    domain.CartStore
}

// NewCartService creates a new CartService instance
func NewCartService(products domain.ProductStore, carts domain.CartStore) CartService {
	return &cartService{
		products: products,
		carts:    carts,
	}
}

func (s *cartService) ValidateLines(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error) {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	inventory, err := s.loadInventory(ctx, lines)
	if err != nil {
		return nil, err
	}

	var problems []domain.LineProblem
	for _, line := range lines {
		problems = append(problems, checkLine(line, inventory)...)
	}

	return &domain.ValidationResult{
		OK:       len(problems) == 0,
		Problems: problems,
	}, nil
}

func (s *cartService) SyncCart(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error) {
	result, err := s.ValidateLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &domain.CartConflictError{Problems: result.Problems}
	}

	inventory, err := s.loadInventory(ctx, lines)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Persisted unit prices are the freshly computed final prices, never
	// the client-remembered ones.
	persisted := lo.Map(lines, func(line domain.CartLine, _ int) domain.PersistedLine {
		inv := inventory[line.SizeID]
		return domain.PersistedLine{
			CartID:            cart.ID,
			ProductID:         inv.ProductID,
			VariantID:         inv.VariantID,
			SizeID:            inv.SizeID,
			Quantity:          line.Quantity,
			UnitPriceCentimes: inv.FinalPriceCentimes(),
		}
	})

	if err := s.carts.ReplaceLines(ctx, cart.ID, persisted); err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart)
}

func (s *cartService) GetCartSummary(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return &domain.CartSummary{}, nil
		}
		return nil, err
	}
	return s.summarize(ctx, cart)
}

// loadInventory fetches the authoritative inventory rows for the lines'
// sizes, keyed by size ID.
func (s *cartService) loadInventory(ctx context.Context, lines []domain.CartLine) (map[int64]domain.SizeInventory, error) {
	sizeIDs := lo.Uniq(lo.Map(lines, func(line domain.CartLine, _ int) int64 {
		return line.SizeID
	}))

	rows, err := s.products.GetSizeInventory(ctx, sizeIDs)
	if err != nil {
		return nil, err
	}

	return lo.KeyBy(rows, func(si domain.SizeInventory) int64 {
		return si.SizeID
	}), nil
}

// checkLine compares one client line against inventory. Problems are not
// mutually exclusive: a line can be both quantity-clamped and re-priced.
func checkLine(line domain.CartLine, inventory map[int64]domain.SizeInventory) []domain.LineProblem {
	inv, found := inventory[line.SizeID]
	if !found || !inv.Active {
		return []domain.LineProblem{{
			SizeID:  line.SizeID,
			Kind:    domain.ProblemUnavailable,
			Message: "This item is no longer available",
		}}
	}

	var problems []domain.LineProblem

	switch {
	case inv.Stock <= 0:
		problems = append(problems, domain.LineProblem{
			SizeID:  line.SizeID,
			Kind:    domain.ProblemOutOfStock,
			Message: fmt.Sprintf("%s is out of stock", inv.ProductTitle),
		})
	case line.Quantity > inv.Stock:
		problems = append(problems, domain.LineProblem{
			SizeID:       line.SizeID,
			Kind:         domain.ProblemQtyReduced,
			Message:      fmt.Sprintf("Only %d of %s left", inv.Stock, inv.ProductTitle),
			SuggestedQty: inv.Stock,
		})
	}

	if currentPrice := inv.FinalPriceCentimes(); currentPrice != line.UnitPriceCentimes {
		problems = append(problems, domain.LineProblem{
			SizeID:               line.SizeID,
			Kind:                 domain.ProblemPriceChanged,
			Message:              fmt.Sprintf("The price of %s has changed", inv.ProductTitle),
			CurrentPriceCentimes: currentPrice,
		})
	}

	return problems
}

func (s *cartService) summarize(ctx context.Context, cart domain.Cart) (*domain.CartSummary, error) {
	lines, err := s.carts.GetLinesWithInventory(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	subtotal := lo.SumBy(lines, func(line domain.CheckoutLine) int64 {
		return int64(line.Quantity) * line.UnitPriceCentimes
	})
	itemCount := lo.SumBy(lines, func(line domain.CheckoutLine) int {
		return int(line.Quantity)
	})

	return &domain.CartSummary{
		Cart:             cart,
		Lines:            lines,
		SubtotalCentimes: subtotal,
		ItemCount:        itemCount,
	}, nil
}
