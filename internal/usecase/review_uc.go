package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
	"github.com/delta-student/wanderlust/internal/platform/metrics"
)

// ReviewUsecase implements review creation and deletion against a parent
// listing.
type ReviewUsecase struct {
	reviews  domain.ReviewRepository
	listings domain.ListingRepository
	events   EventPublisher
	metrics  *metrics.Manager
	logger   *logger.Logger
}

// NewReviewUsecase creates a ReviewUsecase. events may be nil.
func NewReviewUsecase(
	reviews domain.ReviewRepository,
	listings domain.ListingRepository,
	events EventPublisher,
	mets *metrics.Manager,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:  reviews,
		listings: listings,
		events:   events,
		metrics:  mets,
		logger:   log.Named("ReviewUsecase"),
	}
}

// Create validates and persists a review, then appends its reference to the
// parent listing. The listing must exist at creation time.
func (uc *ReviewUsecase) Create(ctx context.Context, listingID, author primitive.ObjectID, rating int, comment string) (*domain.Review, error) {
	uc.logger.Info("Creating review",
		zap.String("listing_id", listingID.Hex()),
		zap.String("author", author.Hex()),
		zap.Int("rating", rating))

	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	review, err := domain.NewReview(listingID, author, rating, comment)
	if err != nil {
		return nil, err
	}

	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if err := uc.listings.PushReview(ctx, listingID, review.ID); err != nil {
		// The listing vanished between the existence check and the push.
		// Remove the orphan so no dangling review remains.
		uc.logger.Warn("Failed to attach review to listing, removing orphan",
			zap.String("review_id", review.ID.Hex()), zap.Error(err))
		if delErr := uc.reviews.Delete(ctx, review.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
			uc.logger.Error("Failed to remove orphaned review", zap.String("review_id", review.ID.Hex()), zap.Error(delErr))
		}
		return nil, err
	}

	uc.metrics.IncReviewsCreated()
	uc.publish(ctx, "review.created", map[string]interface{}{
		"review_id":  review.ID.Hex(),
		"listing_id": listingID.Hex(),
		"author":     author.Hex(),
		"rating":     rating,
		"created_at": review.CreatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review created", zap.String("review_id", review.ID.Hex()))
	return review, nil
}

// Delete removes a review from its listing's reference list and deletes the
// review record. Deleting an already-absent review succeeds, and either way
// the listing's reference list ends up without the review.
func (uc *ReviewUsecase) Delete(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	uc.logger.Info("Deleting review",
		zap.String("listing_id", listingID.Hex()),
		zap.String("review_id", reviewID.Hex()))

	if err := uc.listings.PullReview(ctx, listingID, reviewID); err != nil {
		return err
	}
	if err := uc.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	uc.metrics.IncReviewsDeleted()
	return nil
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
