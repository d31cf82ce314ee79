package mongodb

import (
	"context"
	"errors"
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

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures an index on owner.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.logger.Info("Creating listing in DB", zap.String("title", listing.Title), zap.String("owner", listing.Owner.Hex()))

	doc := fromDomainListing(listing)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	listing.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Listing created successfully in DB", zap.String("listing_id", doc.ID.Hex()))
	return nil
}

// FindAll returns every listing, newest first. The fixed sort keeps the
// index page deterministic across calls.
func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	r.logger.Debug("Finding all listings in DB")

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings in DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomain()
	}
	return listings, nil
}

// FindByID retrieves one listing by id.
func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	r.logger.Debug("Getting listing by ID from DB", zap.String("listing_id", id.Hex()))
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get listing by ID from DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies a partial field update. Owner is deliberately not part of
// domain.ListingUpdate, so it can never change after creation.
func (r *ListingRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.ListingUpdate) error {
	r.logger.Info("Updating listing in DB", zap.String("listing_id", id.Hex()))

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Country != nil {
		set["country"] = *update.Country
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		r.logger.Error("Failed to update listing in DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("Listing not found for update in DB", zap.String("listing_id", id.Hex()))
		return domain.ErrNotFound
	}
	r.logger.Info("Listing updated successfully in DB", zap.String("listing_id", id.Hex()))
	return nil
}

// Delete removes a listing. The review cascade is handled by the caller.
func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.logger.Info("Deleting listing from DB", zap.String("listing_id", id.Hex()))
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		r.logger.Warn("Listing not found for deletion in DB", zap.String("listing_id", id.Hex()))
		return domain.ErrNotFound
	}
	r.logger.Info("Listing deleted successfully from DB", zap.String("listing_id", id.Hex()))
	return nil
}

// PushReview appends a review reference to the listing's review list.
func (r *ListingRepository) PushReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.logger.Debug("Pushing review onto listing", zap.String("listing_id", listingID.Hex()), zap.String("review_id", reviewID.Hex()))
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": listingID},
		bson.M{"$push": bson.M{"reviews": reviewID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		r.logger.Error("Failed to push review onto listing", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PullReview removes a review reference from the listing's review list.
// Pulling an absent reference matches the listing but modifies nothing,
// which keeps the operation idempotent.
func (r *ListingRepository) PullReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.logger.Debug("Pulling review from listing", zap.String("listing_id", listingID.Hex()), zap.String("review_id", reviewID.Hex()))
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": listingID},
		bson.M{"$pull": bson.M{"reviews": reviewID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		r.logger.Error("Failed to pull review from listing", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
