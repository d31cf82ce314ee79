package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a rating plus comment attached to a listing by an authenticated
// user. It is owned by its parent listing: deleting the listing removes its
// reviews.
type Review struct {
	ID        primitive.ObjectID
	Listing   primitive.ObjectID
	Author    primitive.ObjectID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview validates and builds a review against the given listing.
func NewReview(listing, author primitive.ObjectID, rating int, comment string) (*Review, error) {
	if listing.IsZero() {
		return nil, fmt.Errorf("%w: listing cannot be empty", ErrInvalidInput)
	}
	if author.IsZero() {
		return nil, fmt.Errorf("%w: author cannot be empty", ErrInvalidInput)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}
	return &Review{
		ID:        primitive.NewObjectID(),
		Listing:   listing,
		Author:    author,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReviewDetail is a review populated with its author for rendering.
type ReviewDetail struct {
	Review *Review
	Author *User
}
