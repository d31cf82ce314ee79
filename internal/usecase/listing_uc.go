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

// ListingUsecase implements the listing CRUD operations, including the
// review cascade on deletion.
type ListingUsecase struct {
	listings domain.ListingRepository
	reviews  domain.ReviewRepository
	users    domain.UserRepository
	events   EventPublisher
	metrics  *metrics.Manager
	logger   *logger.Logger
}

// NewListingUsecase creates a ListingUsecase. events may be nil.
func NewListingUsecase(
	listings domain.ListingRepository,
	reviews domain.ReviewRepository,
	users domain.UserRepository,
	events EventPublisher,
	mets *metrics.Manager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings: listings,
		reviews:  reviews,
		users:    users,
		events:   events,
		metrics:  mets,
		logger:   log.Named("ListingUsecase"),
	}
}

// List returns all listings, newest first.
func (uc *ListingUsecase) List(ctx context.Context) ([]*domain.Listing, error) {
	return uc.listings.FindAll(ctx)
}

// Get returns one listing populated with its owner and its reviews, each
// review populated with its author.
func (uc *ListingUsecase) Get(ctx context.Context, id primitive.ObjectID) (*domain.ListingDetail, error) {
	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ListingDetail{Listing: listing}

	owner, err := uc.users.FindByID(ctx, listing.Owner)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	detail.Owner = owner // nil when the owner account no longer exists

	reviews, err := uc.reviews.FindByListingID(ctx, id)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, review := range reviews {
		authorIDs = append(authorIDs, review.Author)
	}
	authors, err := uc.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	detail.Reviews = make([]*domain.ReviewDetail, len(reviews))
	for i, review := range reviews {
		detail.Reviews[i] = &domain.ReviewDetail{
			Review: review,
			Author: authors[review.Author],
		}
	}
	return detail, nil
}

// Create validates the input and persists a listing owned by owner.
func (uc *ListingUsecase) Create(ctx context.Context, owner primitive.ObjectID, in domain.ListingInput) (*domain.Listing, error) {
	uc.logger.Info("Creating listing", zap.String("owner", owner.Hex()), zap.String("title", in.Title))

	listing, err := domain.NewListing(owner, in)
	if err != nil {
		return nil, err
	}
	if err := uc.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}

	uc.metrics.IncListingsCreated()
	uc.publish(ctx, "listing.created", map[string]interface{}{
		"listing_id": listing.ID.Hex(),
		"owner":      listing.Owner.Hex(),
		"title":      listing.Title,
		"created_at": listing.CreatedAt.Format(time.RFC3339Nano),
	})

	return listing, nil
}

// Update applies a partial update. Only the owner may edit a listing.
func (uc *ListingUsecase) Update(ctx context.Context, id, actor primitive.ObjectID, update domain.ListingUpdate) error {
	uc.logger.Info("Updating listing", zap.String("listing_id", id.Hex()), zap.String("actor", actor.Hex()))

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.Owner != actor {
		uc.logger.Warn("Update denied: actor does not own listing",
			zap.String("listing_id", id.Hex()), zap.String("actor", actor.Hex()))
		return domain.ErrForbidden
	}
	if err := update.Validate(); err != nil {
		return err
	}
	return uc.listings.Update(ctx, id, update)
}

// Delete removes a listing and cascades to its reviews. Only the owner may
// delete. The cascade is best effort, not transactional: a failure after the
// listing is gone leaves orphaned reviews, which the error reports.
func (uc *ListingUsecase) Delete(ctx context.Context, id, actor primitive.ObjectID) error {
	uc.logger.Info("Deleting listing", zap.String("listing_id", id.Hex()), zap.String("actor", actor.Hex()))

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.Owner != actor {
		uc.logger.Warn("Delete denied: actor does not own listing",
			zap.String("listing_id", id.Hex()), zap.String("actor", actor.Hex()))
		return domain.ErrForbidden
	}

	if err := uc.listings.Delete(ctx, id); err != nil {
		return err
	}

	deleted, err := uc.reviews.DeleteByListingID(ctx, id)
	if err != nil {
		uc.logger.Error("Review cascade failed after listing deletion",
			zap.String("listing_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("listing deleted but review cascade failed: %w", err)
	}

	uc.metrics.IncListingsDeleted()
	uc.publish(ctx, "listing.deleted", map[string]interface{}{
		"listing_id":      id.Hex(),
		"reviews_deleted": deleted,
	})

	uc.logger.Info("Listing deleted with review cascade",
		zap.String("listing_id", id.Hex()), zap.Int64("reviews_deleted", deleted))
	return nil
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
