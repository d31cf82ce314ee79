// Package memory provides in-memory implementations of the repository
// interfaces. They back the test suite and are handy for running the app
// without a database; ordering guarantees match the MongoDB adapter so both
// render identically.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delta-student/wanderlust/internal/domain"
)

// UserRepository is a map-backed domain.UserRepository.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[primitive.ObjectID]*domain.User
	byUsername map[string]primitive.ObjectID
	byEmail    map[string]primitive.ObjectID
}

// NewUserRepository creates an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[primitive.ObjectID]*domain.User),
		byUsername: make(map[string]primitive.ObjectID),
		byEmail:    make(map[string]primitive.ObjectID),
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// Create inserts a user, enforcing unique username and email.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[user.Username]; ok {
		return domain.ErrDuplicateUser
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrDuplicateUser
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.byID[user.ID] = copyUser(user)
	r.byUsername[user.Username] = user.ID
	r.byEmail[user.Email] = user.ID
	return nil
}

// FindByID returns the user or domain.ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(user), nil
}

// FindByUsername returns the user or domain.ErrNotFound.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(r.byID[id]), nil
}

// FindByIDs resolves a batch of ids; missing ids are absent from the map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make(map[primitive.ObjectID]*domain.User, len(ids))
	for _, id := range ids {
		if user, ok := r.byID[id]; ok {
			users[id] = copyUser(user)
		}
	}
	return users, nil
}

// ListingRepository is a map-backed domain.ListingRepository that preserves
// insertion order so FindAll is deterministic.
type ListingRepository struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]*domain.Listing
	order []primitive.ObjectID
}

// NewListingRepository creates an empty listing repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{byID: make(map[primitive.ObjectID]*domain.Listing)}
}

func copyListing(l *domain.Listing) *domain.Listing {
	c := *l
	c.Reviews = append([]primitive.ObjectID(nil), l.Reviews...)
	return &c
}

// Create inserts a listing.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	r.byID[listing.ID] = copyListing(listing)
	r.order = append(r.order, listing.ID)
	return nil
}

// FindAll returns the listings newest first (reverse insertion order).
func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listings := make([]*domain.Listing, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if listing, ok := r.byID[r.order[i]]; ok {
			listings = append(listings, copyListing(listing))
		}
	}
	return listings, nil
}

// FindByID returns the listing or domain.ErrNotFound.
func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyListing(listing), nil
}

// Update applies a partial update.
func (r *ListingRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.ListingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Title != nil {
		listing.Title = *update.Title
	}
	if update.Description != nil {
		listing.Description = *update.Description
	}
	if update.Price != nil {
		listing.Price = *update.Price
	}
	if update.Location != nil {
		listing.Location = *update.Location
	}
	if update.Country != nil {
		listing.Country = *update.Country
	}
	if update.ImageURL != nil {
		listing.ImageURL = *update.ImageURL
	}
	listing.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes the listing.
func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// PushReview appends a review reference.
func (r *ListingRepository) PushReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.byID[listingID]
	if !ok {
		return domain.ErrNotFound
	}
	listing.Reviews = append(listing.Reviews, reviewID)
	listing.UpdatedAt = time.Now().UTC()
	return nil
}

// PullReview removes a review reference; absent references are ignored.
func (r *ListingRepository) PullReview(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.byID[listingID]
	if !ok {
		return domain.ErrNotFound
	}
	kept := listing.Reviews[:0]
	for _, id := range listing.Reviews {
		if id != reviewID {
			kept = append(kept, id)
		}
	}
	listing.Reviews = kept
	listing.UpdatedAt = time.Now().UTC()
	return nil
}

// ReviewRepository is a map-backed domain.ReviewRepository.
type ReviewRepository struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]*domain.Review
	order []primitive.ObjectID
}

// NewReviewRepository creates an empty review repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byID: make(map[primitive.ObjectID]*domain.Review)}
}

func copyReview(rv *domain.Review) *domain.Review {
	c := *rv
	return &c
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	r.byID[review.ID] = copyReview(review)
	r.order = append(r.order, review.ID)
	return nil
}

// FindByListingID returns the listing's reviews, newest first.
func (r *ReviewRepository) FindByListingID(ctx context.Context, listingID primitive.ObjectID) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reviews := make([]*domain.Review, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		if review, ok := r.byID[r.order[i]]; ok && review.Listing == listingID {
			reviews = append(reviews, copyReview(review))
		}
	}
	return reviews, nil
}

// Delete removes one review.
func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// DeleteByListingID removes all reviews of a listing.
func (r *ReviewRepository) DeleteByListingID(ctx context.Context, listingID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, review := range r.byID {
		if review.Listing == listingID {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}
