package domain

import (
	"context"
	"time"
)

var (
	ErrReviewNotFound = &Error{Code: ENOTFOUND, Message: "Review not found"}
	ErrInvalidRating  = &Error{Code: EINVALID, Message: "Rating must be between 1 and 5"}
)

// Review is one customer's rating of a product. A user keeps at most one
// review per product; re-submitting replaces it.
type Review struct {
	ID         int64
	ProductID  int64
	UserID     int64
	AuthorName string
	Rating     int32
	Comment    string
	CreatedAt  time.Time
}

// WishlistItem links a user to a product they saved for later.
type WishlistItem struct {
	ID           int64
	UserID       int64
	ProductID    int64
	ProductTitle string
	ProductSlug  string
	CreatedAt    time.Time
}

// ReviewStore is the persistence boundary for product reviews.
type ReviewStore interface {
	// UpsertReview inserts or replaces the user's review of the product.
	UpsertReview(ctx context.Context, review Review) (Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) error
}

// WishlistStore is the persistence boundary for wishlists.
type WishlistStore interface {
	// AddItem is idempotent: adding an already-saved product is a no-op.
	AddItem(ctx context.Context, userID, productID int64) error
	RemoveItem(ctx context.Context, userID, productID int64) error
	ListItems(ctx context.Context, userID int64) ([]WishlistItem, error)
}
