package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines persistence for user accounts. Methods operate on
// the clean domain entity; database-specific structures stay in the adapter.
type UserRepository interface {
	// Create inserts a user. Returns ErrDuplicateUser when the username or
	// email is already taken.
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// FindByIDs resolves a batch of user ids, used to populate review authors.
	// Missing ids are simply absent from the result map.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*User, error)
}

// ListingRepository defines persistence for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	// FindAll returns all listings, newest first.
	FindAll(ctx context.Context) ([]*Listing, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	Update(ctx context.Context, id primitive.ObjectID, update ListingUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// PushReview appends a review reference to the listing's review list.
	PushReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error
	// PullReview removes a review reference; removing an absent reference is
	// not an error, so the operation is idempotent.
	PullReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error
}

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	// FindByListingID returns the reviews of a listing, newest first.
	FindByListingID(ctx context.Context, listingID primitive.ObjectID) ([]*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByListingID removes all reviews of a listing (cascade on listing
	// deletion) and reports how many were deleted.
	DeleteByListingID(ctx context.Context, listingID primitive.ObjectID) (int64, error)
}
