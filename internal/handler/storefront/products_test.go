package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductList(t *testing.T) {
	var gotFilter domain.ProductFilter
	catalog := &mockCatalogService{
		ListProductsFn: func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
			gotFilter = filter
			return []domain.Product{
				{ID: 1, Title: "Argan Oil", Slug: "argan-oil"},
				{ID: 2, Title: "Black Soap", Slug: "black-soap"},
			}, nil
		},
		ListCategoriesFn: func(ctx context.Context) ([]domain.Category, error) {
			return []domain.Category{{ID: 1, Name: "Beauty", Slug: "beauty"}}, nil
		},
	}
	h := NewProductListHandler(catalog, testRenderer(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?category=beauty&q=oil", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "beauty", gotFilter.CategorySlug)
	assert.Equal(t, "oil", gotFilter.Query)

	body := w.Body.String()
	assert.Contains(t, body, "[Argan Oil]")
	assert.Contains(t, body, "[Black Soap]")
	assert.Contains(t, body, "active=beauty")
}

func TestProductList_ServiceError(t *testing.T) {
	catalog := &mockCatalogService{
		ListProductsFn: func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
			return nil, domain.Internal(errNotImplemented, "catalog.list", "database down")
		},
	}
	h := NewProductListHandler(catalog, testRenderer(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProductDetail(t *testing.T) {
	catalog := &mockCatalogService{
		GetProductBySlugFn: func(ctx context.Context, slug string) (*domain.Product, error) {
			require.Equal(t, "argan-oil", slug)
			return &domain.Product{ID: 1, Title: "Argan Oil", Slug: "argan-oil"}, nil
		},
	}
	reviews := &mockReviewService{
		ListReviewsFn: func(ctx context.Context, productID int64) ([]domain.Review, error) {
			require.Equal(t, int64(1), productID)
			return []domain.Review{
				{ID: 1, ProductID: 1, Rating: 4},
				{ID: 2, ProductID: 1, Rating: 5},
			}, nil
		},
	}
	h := NewProductDetailHandler(catalog, reviews, testRenderer(t))

	r := httptest.NewRequest(http.MethodGet, "/products/argan-oil", nil)
	r.SetPathValue("slug", "argan-oil")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Argan Oil")
	assert.Contains(t, body, "rating=4.5")
	assert.Contains(t, body, "reviews=2")
}

func TestProductDetail_NotFound(t *testing.T) {
	catalog := &mockCatalogService{
		GetProductBySlugFn: func(ctx context.Context, slug string) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	}
	h := NewProductDetailHandler(catalog, &mockReviewService{}, testRenderer(t))

	r := httptest.NewRequest(http.MethodGet, "/products/gone", nil)
	r.SetPathValue("slug", "gone")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductDetail_NoReviews(t *testing.T) {
	catalog := &mockCatalogService{
		GetProductBySlugFn: func(ctx context.Context, slug string) (*domain.Product, error) {
			return &domain.Product{ID: 1, Title: "Argan Oil", Slug: "argan-oil"}, nil
		},
	}
	reviews := &mockReviewService{
		ListReviewsFn: func(ctx context.Context, productID int64) ([]domain.Review, error) {
			return nil, nil
		},
	}
	h := NewProductDetailHandler(catalog, reviews, testRenderer(t))

	r := httptest.NewRequest(http.MethodGet, "/products/argan-oil", nil)
	r.SetPathValue("slug", "argan-oil")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rating=0")
}
