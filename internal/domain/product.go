package domain

import (
	"context"
	"time"
)

// =============================================================================
// CATALOG DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrSizeNotFound     = &Error{Code: ENOTFOUND, Message: "Size not found"}
	ErrSlugTaken        = &Error{Code: ECONFLICT, Message: "Slug is already in use"}
)

// Category groups products for storefront filtering.
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Product is the top-level catalog entity. Pricing and stock live on its
// variants' sizes, not on the product itself.
type Product struct {
	ID          int64
	CategoryID  int64
	Title       string
	Slug        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variants []Variant
}

// Variant is a sellable variation of a product (e.g. a colorway).
// FreeDelivery marks the variant as shipping-fee exempt; an order ships
// free only when every line's variant carries the flag.
type Variant struct {
	ID           int64
	ProductID    int64
	Name         string
	ImageURL     string
	FreeDelivery bool
	Active       bool

	Sizes []Size
}

// Size is the stock-keeping unit: the authoritative inventory record.
// Stock must never go negative; decrements happen only inside the
// order-commit transaction.
type Size struct {
	ID              int64
	VariantID       int64
	Label           string
	SKU             string
	Stock           int32
	PriceCentimes   int64
	DiscountPercent int32
	Active          bool
}

// FinalPriceCentimes returns the size's effective unit price after its
// current discount.
func (s Size) FinalPriceCentimes() int64 {
	return FinalPriceCentimes(s.PriceCentimes, s.DiscountPercent)
}

// SizeInventory is the denormalized inventory view the cart validator and
// order committer work from: one row per size with its parent variant and
// product attributes joined in.
type SizeInventory struct {
	SizeID          int64
	VariantID       int64
	ProductID       int64
	SKU             string
	ProductTitle    string
	VariantName     string
	SizeLabel       string
	Stock           int32
	PriceCentimes   int64
	DiscountPercent int32
	FreeDelivery    bool
	// Active is false when the size, its variant, or its product is inactive.
	Active bool
}

// FinalPriceCentimes returns the effective unit price for this inventory row.
func (si SizeInventory) FinalPriceCentimes() int64 {
	return FinalPriceCentimes(si.PriceCentimes, si.DiscountPercent)
}

// ProductFilter narrows storefront product listings.
type ProductFilter struct {
	CategorySlug string
	Query        string
}

// CategoryInput carries admin form data for category creation and updates.
type CategoryInput struct {
	Name string
	Slug string
}

// ProductInput carries admin form data for product creation and updates.
type ProductInput struct {
	CategoryID  int64
	Title       string
	Slug        string
	Description string
	Active      bool
}

// VariantInput carries admin form data for variant creation and updates.
type VariantInput struct {
	Name         string
	ImageURL     string
	FreeDelivery bool
	Active       bool
}

// SizeInput carries admin form data for size creation and updates.
type SizeInput struct {
	Label           string
	SKU             string
	Stock           int32
	PriceCentimes   int64
	DiscountPercent int32
	Active          bool
}

// ProductStore is the persistence boundary for the catalog.
type ProductStore interface {
	// Storefront reads.
	ListActiveProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// GetSizeInventory loads the authoritative inventory rows for the given
	// size IDs. Missing sizes are simply absent from the result.
	GetSizeInventory(ctx context.Context, sizeIDs []int64) ([]SizeInventory, error)

	// Admin reads.
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)

	// Admin writes.
	CreateCategory(ctx context.Context, input CategoryInput) (Category, error)
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error
	CreateProduct(ctx context.Context, input ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateVariant(ctx context.Context, productID int64, input VariantInput) (Variant, error)
	UpdateVariant(ctx context.Context, id int64, input VariantInput) error
	CreateSize(ctx context.Context, variantID int64, input SizeInput) (Size, error)
	UpdateSize(ctx context.Context, id int64, input SizeInput) error
}
