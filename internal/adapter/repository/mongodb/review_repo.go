package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
)

const reviewCollectionName = "reviews"

// ReviewRepository implements domain.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewReviewRepository creates the repository and ensures an index on the
// parent listing, which backs both the show-page lookup and the cascade.
func NewReviewRepository(db *mongo.Database, log *logger.Logger) (*ReviewRepository, error) {
	collection := db.Collection(reviewCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for reviews collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for reviews collection")
	}

	return &ReviewRepository{
		collection: collection,
		logger:     log.Named("ReviewRepository"),
	}, nil
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.logger.Info("Creating review in DB", zap.String("listing_id", review.Listing.Hex()), zap.String("author", review.Author.Hex()))

	doc := fromDomainReview(review)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	review.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert review into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Review created successfully in DB", zap.String("review_id", doc.ID.Hex()))
	return nil
}

// FindByListingID returns all reviews of a listing, newest first.
func (r *ReviewRepository) FindByListingID(ctx context.Context, listingID primitive.ObjectID) ([]*domain.Review, error) {
	r.logger.Debug("Finding reviews by listing from DB", zap.String("listing_id", listingID.Hex()))

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing": listingID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find reviews by listing from DB", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode reviews from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	reviews := make([]*domain.Review, len(docs))
	for i, doc := range docs {
		reviews[i] = doc.toDomain()
	}
	return reviews, nil
}

// Delete removes one review.
func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.logger.Info("Deleting review from DB", zap.String("review_id", id.Hex()))
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete review from DB", zap.Error(err), zap.String("review_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		r.logger.Warn("Review not found for deletion in DB", zap.String("review_id", id.Hex()))
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByListingID removes every review of a listing. Used for the cascade
// when the parent listing is deleted; best effort, not transactional.
func (r *ReviewRepository) DeleteByListingID(ctx context.Context, listingID primitive.ObjectID) (int64, error) {
	r.logger.Info("Deleting reviews of listing from DB", zap.String("listing_id", listingID.Hex()))
	result, err := r.collection.DeleteMany(ctx, bson.M{"listing": listingID})
	if err != nil {
		r.logger.Error("Failed to cascade-delete reviews from DB", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return 0, fmt.Errorf("db delete failed: %w", err)
	}
	r.logger.Info("Reviews cascade-deleted from DB", zap.String("listing_id", listingID.Hex()), zap.Int64("count", result.DeletedCount))
	return result.DeletedCount, nil
}
