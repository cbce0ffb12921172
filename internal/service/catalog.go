package service

import (
	"context"
	"strings"

	"github.com/atlasware/souq/internal/domain"
)

// CatalogService backs storefront browsing and the admin catalog screens.
type CatalogService interface {
	// Storefront reads: only active products are visible.
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Admin operations see inactive records too.
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateVariant(ctx context.Context, productID int64, input domain.VariantInput) (*domain.Variant, error)
	UpdateVariant(ctx context.Context, id int64, input domain.VariantInput) error
	CreateSize(ctx context.Context, variantID int64, input domain.SizeInput) (*domain.Size, error)
	UpdateSize(ctx context.Context, id int64, input domain.SizeInput) error
}

type catalogService struct {
	products domain.ProductStore
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(products domain.ProductStore) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.CategorySlug = strings.TrimSpace(filter.CategorySlug)
	filter.Query = strings.TrimSpace(filter.Query)
	return s.products.ListActiveProducts(ctx, filter)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.products.ListCategories(ctx)
}

func (s *catalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	if err := validateCategoryInput(&input); err != nil {
		return nil, err
	}
	category, err := s.products.CreateCategory(ctx, input)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) error {
	if err := validateCategoryInput(&input); err != nil {
		return err
	}
	return s.products.UpdateCategory(ctx, id, input)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.products.DeleteCategory(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	product, err := s.products.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) error {
	if err := validateProductInput(&input); err != nil {
		return err
	}
	return s.products.UpdateProduct(ctx, id, input)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *catalogService) CreateVariant(ctx context.Context, productID int64, input domain.VariantInput) (*domain.Variant, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, domain.Invalid("variant.validate", "Variant name is required")
	}
	variant, err := s.products.CreateVariant(ctx, productID, input)
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (s *catalogService) UpdateVariant(ctx context.Context, id int64, input domain.VariantInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Invalid("variant.validate", "Variant name is required")
	}
	return s.products.UpdateVariant(ctx, id, input)
}

func (s *catalogService) CreateSize(ctx context.Context, variantID int64, input domain.SizeInput) (*domain.Size, error) {
	if err := validateSizeInput(&input); err != nil {
		return nil, err
	}
	size, err := s.products.CreateSize(ctx, variantID, input)
	if err != nil {
		return nil, err
	}
	return &size, nil
}

func (s *catalogService) UpdateSize(ctx context.Context, id int64, input domain.SizeInput) error {
	if err := validateSizeInput(&input); err != nil {
		return err
	}
	return s.products.UpdateSize(ctx, id, input)
}

func validateCategoryInput(input *domain.CategoryInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = slugify(input.Slug)

	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "Name is required"
	}
	if input.Slug == "" {
		fields["slug"] = "Slug is required"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "category.validate", Fields: fields}
	}
	return nil
}

func validateProductInput(input *domain.ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = slugify(input.Slug)

	fields := map[string]string{}
	if input.CategoryID == 0 {
		fields["category_id"] = "Category is required"
	}
	if input.Title == "" {
		fields["title"] = "Title is required"
	}
	if input.Slug == "" {
		fields["slug"] = "Slug is required"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "product.validate", Fields: fields}
	}
	return nil
}

func validateSizeInput(input *domain.SizeInput) error {
	input.Label = strings.TrimSpace(input.Label)
	input.SKU = strings.ToUpper(strings.TrimSpace(input.SKU))

	fields := map[string]string{}
	if input.Label == "" {
		fields["label"] = "Label is required"
	}
	if input.SKU == "" {
		fields["sku"] = "SKU is required"
	}
	if input.Stock < 0 {
		fields["stock"] = "Stock cannot be negative"
	}
	if input.PriceCentimes < 0 {
		fields["price"] = "Price cannot be negative"
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		fields["discount_percent"] = "Discount must be between 0 and 100"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "size.validate", Fields: fields}
	}
	return nil
}

// slugify lowercases and hyphenates a slug candidate, dropping anything
// that is not a letter, digit, or hyphen.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
