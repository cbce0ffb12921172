package postgres

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartStore implements domain.CartStore using PostgreSQL.
type CartStore struct {
	pool *pgxpool.Pool
}

var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a PostgreSQL-backed cart store.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// GetCartByUser returns the user's cart or ErrCartNotFound.
func (s *CartStore) GetCartByUser(ctx context.Context, userID int64) (domain.Cart, error) {
	var c domain.Cart
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, domain.Internal(err, "cart.get", "failed to get cart")
	}
	return c, nil
}

// GetOrCreateCart finds the user's cart, creating it on first use.
// The unique constraint on user_id makes concurrent creation safe.
func (s *CartStore) GetOrCreateCart(ctx context.Context, userID int64) (domain.Cart, error) {
	var c domain.Cart
	err := s.pool.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, created_at, updated_at`, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Cart{}, domain.Internal(err, "cart.get_or_create", "failed to get or create cart")
	}
	return c, nil
}

// ReplaceLines deletes every persisted line of the cart and inserts the new
// set inside one transaction: a wholesale mirror swap, never a diff.
func (s *CartStore) ReplaceLines(ctx context.Context, cartID int64, lines []domain.PersistedLine) error {
	err := runTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
			return err
		}

		for _, line := range lines {
			_, err := tx.Exec(ctx, `
				INSERT INTO cart_lines (cart_id, product_id, variant_id, size_id, quantity, unit_price_centimes)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				cartID, line.ProductID, line.VariantID, line.SizeID, line.Quantity, line.UnitPriceCentimes)
			if err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
		return err
	})
	if err != nil {
		return domain.Internal(err, "cart.replace_lines", "failed to replace cart lines")
	}
	return nil
}

// GetLinesWithInventory re-reads the cart's lines joined with the current
// inventory rows, the view the order committer validates against.
func (s *CartStore) GetLinesWithInventory(ctx context.Context, cartID int64) ([]domain.CheckoutLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cl.id, cl.cart_id, cl.product_id, cl.variant_id, cl.size_id, cl.quantity, cl.unit_price_centimes,
		       sz.id, v.id, p.id, sz.sku, p.title, v.name, sz.label,
		       sz.stock, sz.price_centimes, sz.discount_percent, v.free_delivery,
		       (sz.active AND v.active AND p.active)
		FROM cart_lines cl
		JOIN sizes sz ON sz.id = cl.size_id
		JOIN variants v ON v.id = sz.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE cl.cart_id = $1
		ORDER BY cl.id`, cartID)
	if err != nil {
		return nil, domain.Internal(err, "cart.get_lines", "failed to load cart lines")
	}
	defer rows.Close()

	var lines []domain.CheckoutLine
	for rows.Next() {
		var l domain.CheckoutLine
		if err := rows.Scan(
			&l.ID, &l.CartID, &l.ProductID, &l.VariantID, &l.SizeID, &l.Quantity, &l.UnitPriceCentimes,
			&l.Inventory.SizeID, &l.Inventory.VariantID, &l.Inventory.ProductID, &l.Inventory.SKU,
			&l.Inventory.ProductTitle, &l.Inventory.VariantName, &l.Inventory.SizeLabel,
			&l.Inventory.Stock, &l.Inventory.PriceCentimes, &l.Inventory.DiscountPercent,
			&l.Inventory.FreeDelivery, &l.Inventory.Active,
		); err != nil {
			return nil, domain.Internal(err, "cart.get_lines", "failed to scan cart line")
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ClearLines removes all persisted lines from the cart.
func (s *CartStore) ClearLines(ctx context.Context, cartID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return nil
}
