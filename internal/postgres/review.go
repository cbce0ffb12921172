package postgres

import (
	"context"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewStore implements domain.ReviewStore using PostgreSQL.
type ReviewStore struct {
	pool *pgxpool.Pool
}

var _ domain.ReviewStore = (*ReviewStore)(nil)

// NewReviewStore creates a PostgreSQL-backed review store.
func NewReviewStore(pool *pgxpool.Pool) *ReviewStore {
	return &ReviewStore{pool: pool}
}

// UpsertReview inserts or replaces the user's review of the product.
// The (product_id, user_id) unique constraint enforces one review per
// user per product.
func (s *ReviewStore) UpsertReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reviews (product_id, user_id, author_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET author_name = $3, rating = $4, comment = $5, created_at = now()
		RETURNING id, created_at`,
		review.ProductID, review.UserID, review.AuthorName, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return domain.Review{}, domain.Internal(err, "review.upsert", "failed to save review")
	}
	return review, nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, user_id, author_name, rating, comment, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, domain.Internal(err, "review.list", "failed to list reviews")
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.AuthorName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, domain.Internal(err, "review.list", "failed to scan review")
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *ReviewStore) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return domain.Internal(err, "review.delete", "failed to delete review")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// WishlistStore implements domain.WishlistStore using PostgreSQL.
type WishlistStore struct {
	pool *pgxpool.Pool
}

var _ domain.WishlistStore = (*WishlistStore)(nil)

// NewWishlistStore creates a PostgreSQL-backed wishlist store.
func NewWishlistStore(pool *pgxpool.Pool) *WishlistStore {
	return &WishlistStore{pool: pool}
}

// AddItem saves a product to the user's wishlist; re-adding is a no-op.
func (s *WishlistStore) AddItem(ctx context.Context, userID, productID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if err != nil {
		return domain.Internal(err, "wishlist.add", "failed to add wishlist item")
	}
	return nil
}

func (s *WishlistStore) RemoveItem(ctx context.Context, userID, productID int64) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return domain.Internal(err, "wishlist.remove", "failed to remove wishlist item")
	}
	return nil
}

func (s *WishlistStore) ListItems(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT w.id, w.user_id, w.product_id, p.title, p.slug, w.created_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1 ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "wishlist.list", "failed to list wishlist")
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.ProductTitle, &it.ProductSlug, &it.CreatedAt); err != nil {
			return nil, domain.Internal(err, "wishlist.list", "failed to scan wishlist item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
