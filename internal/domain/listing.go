package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is a rentable property record. Owner is set at creation and never
// changes; Reviews holds references to the reviews left on the listing.
type Listing struct {
	ID          primitive.ObjectID
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	ImageURL    string
	Owner       primitive.ObjectID
	Reviews     []primitive.ObjectID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingInput carries the form fields for creating a listing.
type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	ImageURL    string
}

// ListingUpdate carries a partial update; nil fields are left untouched.
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Country     *string
	ImageURL    *string
}

// NewListing validates the input and builds a Listing owned by owner.
func NewListing(owner primitive.ObjectID, in ListingInput) (*Listing, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("%w: location cannot be empty", ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	now := time.Now().UTC()
	return &Listing{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Location:    strings.TrimSpace(in.Location),
		Country:     strings.TrimSpace(in.Country),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Owner:       owner,
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks a partial update before it is applied.
func (u ListingUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		return fmt.Errorf("%w: location cannot be empty", ErrInvalidInput)
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ListingDetail is a listing populated with its owner and reviews, the shape
// rendered by the show page.
type ListingDetail struct {
	Listing *Listing
	Owner   *User
	Reviews []*ReviewDetail
}
