package storefront

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var errNotImplemented = errors.New("not implemented in mock")

// mockCartService implements service.CartService for testing
type mockCartService struct {
	ValidateLinesFn  func(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error)
	SyncCartFn       func(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error)
	GetCartSummaryFn func(ctx context.Context, userID int64) (*domain.CartSummary, error)
}

func (m *mockCartService) ValidateLines(ctx context.Context, lines []domain.CartLine) (*domain.ValidationResult, error) {
	if m.ValidateLinesFn == nil {
		return nil, errNotImplemented
	}
	return m.ValidateLinesFn(ctx, lines)
}

func (m *mockCartService) SyncCart(ctx context.Context, userID int64, lines []domain.CartLine) (*domain.CartSummary, error) {
	if m.SyncCartFn == nil {
		return nil, errNotImplemented
	}
	return m.SyncCartFn(ctx, userID, lines)
}

func (m *mockCartService) GetCartSummary(ctx context.Context, userID int64) (*domain.CartSummary, error) {
	if m.GetCartSummaryFn == nil {
		return nil, errNotImplemented
	}
	return m.GetCartSummaryFn(ctx, userID)
}

// mockCatalogService implements service.CatalogService for testing. Only the
// storefront-facing methods are stubbed; the embedded interface panics on the
// rest, which these handlers never call.
type mockCatalogService struct {
	service.CatalogService

	ListProductsFn     func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductBySlugFn func(ctx context.Context, slug string) (*domain.Product, error)
	ListCategoriesFn   func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if m.ListProductsFn == nil {
		return nil, errNotImplemented
	}
	return m.ListProductsFn(ctx, filter)
}

func (m *mockCatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if m.GetProductBySlugFn == nil {
		return nil, errNotImplemented
	}
	return m.GetProductBySlugFn(ctx, slug)
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFn == nil {
		return nil, errNotImplemented
	}
	return m.ListCategoriesFn(ctx)
}

// mockReviewService implements service.ReviewService for testing
type mockReviewService struct {
	service.ReviewService

	ListReviewsFn func(ctx context.Context, productID int64) ([]domain.Review, error)
}

func (m *mockReviewService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	if m.ListReviewsFn == nil {
		return nil, errNotImplemented
	}
	return m.ListReviewsFn(ctx, productID)
}

// ============================================================================
// Test Helpers
// ============================================================================

// testRenderer builds a Renderer over a minimal template tree so page
// handlers can execute without the real web/templates directory.
func testRenderer(t *testing.T) *handler.Renderer {
	t.Helper()

	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("layout.html", `{{define "base"}}{{block "content" .}}{{end}}{{end}}`)
	write(filepath.Join("admin", "layout.html"), `{{define "admin_base"}}{{block "content" .}}{{end}}{{end}}`)
	write(filepath.Join("storefront", "cart.html"), `{{define "content"}}cart:{{with .Summary}}{{.ItemCount}} items{{end}}{{end}}`)
	write(filepath.Join("storefront", "products.html"), `{{define "content"}}{{range .Products}}[{{.Title}}]{{end}}active={{.ActiveCategory}}{{end}}`)
	write(filepath.Join("storefront", "product_detail.html"), `{{define "content"}}{{.Product.Title}} rating={{.AverageRating}} reviews={{len .Reviews}}{{end}}`)

	renderer, err := handler.NewRenderer(dir)
	require.NoError(t, err)
	return renderer
}

// withUser attaches an authenticated user the way middleware.WithUser does.
func withUser(r *http.Request, user domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, &user)
	return r.WithContext(ctx)
}
