package postgres

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *pgxpool.Pool
}

var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a PostgreSQL-backed product store.
func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

// =============================================================================
// STOREFRONT OPERATIONS
// =============================================================================

// ListActiveProducts returns active products, optionally narrowed by
// category slug or a title search, without variants loaded.
func (s *ProductStore) ListActiveProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.category_id, p.title, p.slug, p.description, p.active, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.active = true`
	args := []any{}

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		query += ` AND c.slug = $1`
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		if len(args) == 1 {
			query += ` AND p.title ILIKE $1`
		} else {
			query += ` AND p.title ILIKE $2`
		}
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProductBySlug retrieves an active product with its variants and sizes.
func (s *ProductStore) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, category_id, title, slug, description, active, created_at, updated_at
		FROM products WHERE slug = $1 AND active = true`, slug).
		Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, domain.Internal(err, "product.get_by_slug", "failed to get product")
	}

	if err := s.loadVariants(ctx, &p); err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

// ListCategories returns all categories ordered by name.
func (s *ProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, "category.list", "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, domain.Internal(err, "category.list", "failed to scan category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetSizeInventory loads authoritative inventory rows for the given size IDs.
// A size is Active only when itself, its variant, and its product are active.
func (s *ProductStore) GetSizeInventory(ctx context.Context, sizeIDs []int64) ([]domain.SizeInventory, error) {
	if len(sizeIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT sz.id, v.id, p.id, sz.sku, p.title, v.name, sz.label,
		       sz.stock, sz.price_centimes, sz.discount_percent, v.free_delivery,
		       (sz.active AND v.active AND p.active)
		FROM sizes sz
		JOIN variants v ON v.id = sz.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE sz.id = ANY($1)`, sizeIDs)
	if err != nil {
		return nil, domain.Internal(err, "inventory.get", "failed to load inventory")
	}
	defer rows.Close()

	var result []domain.SizeInventory
	for rows.Next() {
		var si domain.SizeInventory
		if err := rows.Scan(&si.SizeID, &si.VariantID, &si.ProductID, &si.SKU, &si.ProductTitle,
			&si.VariantName, &si.SizeLabel, &si.Stock, &si.PriceCentimes, &si.DiscountPercent,
			&si.FreeDelivery, &si.Active); err != nil {
			return nil, domain.Internal(err, "inventory.get", "failed to scan inventory row")
		}
		result = append(result, si)
	}
	return result, rows.Err()
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

// ListProducts returns all products including inactive ones.
func (s *ProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category_id, title, slug, description, active, created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "product.list_all", "failed to list products")
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetProduct retrieves a product by ID with variants and sizes, regardless
// of active flags.
func (s *ProductStore) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, category_id, title, slug, description, active, created_at, updated_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, domain.Internal(err, "product.get", "failed to get product")
	}

	if err := s.loadVariants(ctx, &p); err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

func (s *ProductStore) CreateCategory(ctx context.Context, input domain.CategoryInput) (domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at`, input.Name, input.Slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, domain.ErrSlugTaken
		}
		return domain.Category{}, domain.Internal(err, "category.create", "failed to create category")
	}
	return c, nil
}

func (s *ProductStore) UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) error {
	tag, err := s.pool.Exec(ctx, `UPDATE categories SET name = $1, slug = $2 WHERE id = $3`,
		input.Name, input.Slug, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return domain.Internal(err, "category.update", "failed to update category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *ProductStore) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "category.delete", "failed to delete category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *ProductStore) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (category_id, title, slug, description, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, category_id, title, slug, description, active, created_at, updated_at`,
		input.CategoryID, input.Title, input.Slug, input.Description, input.Active).
		Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, domain.ErrSlugTaken
		}
		return domain.Product{}, domain.Internal(err, "product.create", "failed to create product")
	}
	return p, nil
}

func (s *ProductStore) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET category_id = $1, title = $2, slug = $3, description = $4, active = $5, updated_at = now()
		WHERE id = $6`,
		input.CategoryID, input.Title, input.Slug, input.Description, input.Active, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return domain.Internal(err, "product.update", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) CreateVariant(ctx context.Context, productID int64, input domain.VariantInput) (domain.Variant, error) {
	var v domain.Variant
	err := s.pool.QueryRow(ctx, `
		INSERT INTO variants (product_id, name, image_url, free_delivery, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, name, image_url, free_delivery, active`,
		productID, input.Name, input.ImageURL, input.FreeDelivery, input.Active).
		Scan(&v.ID, &v.ProductID, &v.Name, &v.ImageURL, &v.FreeDelivery, &v.Active)
	if err != nil {
		return domain.Variant{}, domain.Internal(err, "variant.create", "failed to create variant")
	}
	return v, nil
}

func (s *ProductStore) UpdateVariant(ctx context.Context, id int64, input domain.VariantInput) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE variants SET name = $1, image_url = $2, free_delivery = $3, active = $4 WHERE id = $5`,
		input.Name, input.ImageURL, input.FreeDelivery, input.Active, id)
	if err != nil {
		return domain.Internal(err, "variant.update", "failed to update variant")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("variant.update", "variant", "")
	}
	return nil
}

func (s *ProductStore) CreateSize(ctx context.Context, variantID int64, input domain.SizeInput) (domain.Size, error) {
	var sz domain.Size
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sizes (variant_id, label, sku, stock, price_centimes, discount_percent, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, variant_id, label, sku, stock, price_centimes, discount_percent, active`,
		variantID, input.Label, input.SKU, input.Stock, input.PriceCentimes, input.DiscountPercent, input.Active).
		Scan(&sz.ID, &sz.VariantID, &sz.Label, &sz.SKU, &sz.Stock, &sz.PriceCentimes, &sz.DiscountPercent, &sz.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Size{}, domain.Conflict("size.create", "SKU is already in use")
		}
		return domain.Size{}, domain.Internal(err, "size.create", "failed to create size")
	}
	return sz, nil
}

func (s *ProductStore) UpdateSize(ctx context.Context, id int64, input domain.SizeInput) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sizes
		SET label = $1, sku = $2, stock = $3, price_centimes = $4, discount_percent = $5, active = $6
		WHERE id = $7`,
		input.Label, input.SKU, input.Stock, input.PriceCentimes, input.DiscountPercent, input.Active, id)
	if err != nil {
		return domain.Internal(err, "size.update", "failed to update size")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSizeNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadVariants attaches variants and their sizes to the product.
func (s *ProductStore) loadVariants(ctx context.Context, p *domain.Product) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, name, image_url, free_delivery, active
		FROM variants WHERE product_id = $1 ORDER BY id`, p.ID)
	if err != nil {
		return domain.Internal(err, "product.load_variants", "failed to load variants")
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.ImageURL, &v.FreeDelivery, &v.Active); err != nil {
			return domain.Internal(err, "product.load_variants", "failed to scan variant")
		}
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return domain.Internal(err, "product.load_variants", "failed to iterate variants")
	}

	for i := range p.Variants {
		szRows, err := s.pool.Query(ctx, `
			SELECT id, variant_id, label, sku, stock, price_centimes, discount_percent, active
			FROM sizes WHERE variant_id = $1 ORDER BY id`, p.Variants[i].ID)
		if err != nil {
			return domain.Internal(err, "product.load_sizes", "failed to load sizes")
		}

		for szRows.Next() {
			var sz domain.Size
			if err := szRows.Scan(&sz.ID, &sz.VariantID, &sz.Label, &sz.SKU, &sz.Stock,
				&sz.PriceCentimes, &sz.DiscountPercent, &sz.Active); err != nil {
				szRows.Close()
				return domain.Internal(err, "product.load_sizes", "failed to scan size")
			}
			p.Variants[i].Sizes = append(p.Variants[i].Sizes, sz)
		}
		err = szRows.Err()
		szRows.Close()
		if err != nil {
			return domain.Internal(err, "product.load_sizes", "failed to iterate sizes")
		}
	}

	return nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Title, &p.Slug, &p.Description,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "product.scan", "failed to scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
