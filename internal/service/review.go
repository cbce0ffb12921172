package service

import (
	"context"
	"strings"

	"github.com/atlasware/souq/internal/domain"
)

// ReviewService manages product reviews and per-user wishlists.
type ReviewService interface {
	// SubmitReview creates or replaces the user's review of a product.
	SubmitReview(ctx context.Context, user domain.User, productID int64, rating int32, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID int64) error

	AddToWishlist(ctx context.Context, userID, productID int64) error
	RemoveFromWishlist(ctx context.Context, userID, productID int64) error
	ListWishlist(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
}

type reviewService struct {
	reviews   domain.ReviewStore
	wishlists domain.WishlistStore
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(reviews domain.ReviewStore, wishlists domain.WishlistStore) ReviewService {
	return &reviewService{
		reviews:   reviews,
		wishlists: wishlists,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, user domain.User, productID int64, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	review, err := s.reviews.UpsertReview(ctx, domain.Review{
		ProductID:  productID,
		UserID:     user.ID,
		AuthorName: user.FullName(),
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	return s.reviews.DeleteReview(ctx, userID, reviewID)
}

func (s *reviewService) AddToWishlist(ctx context.Context, userID, productID int64) error {
	return s.wishlists.AddItem(ctx, userID, productID)
}

func (s *reviewService) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	return s.wishlists.RemoveItem(ctx, userID, productID)
}

func (s *reviewService) ListWishlist(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	return s.wishlists.ListItems(ctx, userID)
}
