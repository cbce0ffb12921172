package domain

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound    = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartEmpty       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// CartLine is a client-supplied purchase intent: identifiers plus the unit
// price the client remembers. The price is only ever compared against the
// freshly computed one, never used for money math.
type CartLine struct {
	ProductID         int64 `json:"product_id"`
	VariantID         int64 `json:"variant_id"`
	SizeID            int64 `json:"size_id"`
	Quantity          int32 `json:"quantity"`
	UnitPriceCentimes int64 `json:"unit_price_centimes"`
}

// ProblemKind classifies a per-line discrepancy found during validation.
type ProblemKind string

const (
	ProblemUnavailable  ProblemKind = "unavailable"   // size gone or inactive
	ProblemOutOfStock   ProblemKind = "out_of_stock"  // stock <= 0
	ProblemQtyReduced   ProblemKind = "qty_reduced"   // requested > stock > 0
	ProblemPriceChanged ProblemKind = "price_changed" // client price != current price
)

// LineProblem describes one discrepancy between a client line and the
// authoritative inventory. QtyReduced carries the clamped quantity;
// PriceChanged carries the current unit price.
type LineProblem struct {
	SizeID               int64       `json:"size_id"`
	Kind                 ProblemKind `json:"kind"`
	Message              string      `json:"message"`
	SuggestedQty         int32       `json:"suggested_qty,omitempty"`
	CurrentPriceCentimes int64       `json:"current_price_centimes,omitempty"`
}

// ValidationResult is the validator's verdict over a set of cart lines.
// Any problem blocks persistence; the caller must re-present the cart.
type ValidationResult struct {
	OK       bool          `json:"ok"`
	Problems []LineProblem `json:"problems,omitempty"`
}

// CartConflictError carries the structured per-line problem list so the
// caller can re-render the cart with corrections. No writes happen when
// it is returned.
type CartConflictError struct {
	Problems []LineProblem
}

func (e *CartConflictError) Error() string {
	return fmt.Sprintf("cart out of date: %d line problem(s)", len(e.Problems))
}

// Cart is the single durable cart record per user.
type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PersistedLine mirrors a validated CartLine on the server. Its unit price
// is the validated final price at sync time.
type PersistedLine struct {
	ID                int64
	CartID            int64
	ProductID         int64
	VariantID         int64
	SizeID            int64
	Quantity          int32
	UnitPriceCentimes int64
}

// CheckoutLine is a persisted line joined with its current inventory row,
// as re-read by the order committer.
type CheckoutLine struct {
	PersistedLine
	Inventory SizeInventory
}

// CartSummary aggregates a cart with display details and totals.
type CartSummary struct {
	Cart             Cart
	Lines            []CheckoutLine
	SubtotalCentimes int64
	ItemCount        int
}

// CartStore is the persistence boundary for per-user carts.
type CartStore interface {
	// GetCartByUser returns the user's cart or ErrCartNotFound.
	GetCartByUser(ctx context.Context, userID int64) (Cart, error)

	// GetOrCreateCart finds the user's cart, creating it on first use.
	GetOrCreateCart(ctx context.Context, userID int64) (Cart, error)

	// ReplaceLines deletes every persisted line of the cart and inserts the
	// given set, atomically. The persisted cart is always an exact mirror of
	// the last successful validation pass.
	ReplaceLines(ctx context.Context, cartID int64, lines []PersistedLine) error

	// GetLinesWithInventory re-reads the cart's lines joined with current
	// inventory rows.
	GetLinesWithInventory(ctx context.Context, cartID int64) ([]CheckoutLine, error)

	// ClearLines removes all persisted lines from the cart.
	ClearLines(ctx context.Context, cartID int64) error
}
