package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delta-student/wanderlust/internal/domain"
)

func TestReviewCreate(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	listing, err := f.uc.Create(ctx, f.owner.ID, validInput())
	require.NoError(t, err)

	review, err := f.reviewUC.Create(ctx, listing.ID, f.other.ID, 5, "Great stay")
	require.NoError(t, err)

	detail, err := f.uc.Get(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, review.ID, detail.Reviews[0].Review.ID)
	assert.Equal(t, 5, detail.Reviews[0].Review.Rating)
	require.NotNil(t, detail.Reviews[0].Author)
	assert.Equal(t, "bob", detail.Reviews[0].Author.Username)

	// The listing carries the reference as well.
	stored, err := f.listings.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{review.ID}, stored.Reviews)

	assert.Contains(t, f.events.subjects, "review.created")
}

func TestReviewCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	listing, err := f.uc.Create(ctx, f.owner.ID, validInput())
	require.NoError(t, err)

	_, err = f.reviewUC.Create(ctx, listing.ID, f.other.ID, 0, "fine")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reviewUC.Create(ctx, listing.ID, f.other.ID, 6, "fine")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reviewUC.Create(ctx, listing.ID, f.other.ID, 3, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	detail, err := f.uc.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)
}

func TestReviewCreateRequiresListing(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	_, err := f.reviewUC.Create(ctx, primitive.NewObjectID(), f.other.ID, 4, "nice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	listing, err := f.uc.Create(ctx, f.owner.ID, validInput())
	require.NoError(t, err)
	review, err := f.reviewUC.Create(ctx, listing.ID, f.other.ID, 4, "nice")
	require.NoError(t, err)

	require.NoError(t, f.reviewUC.Delete(ctx, listing.ID, review.ID))

	detail, err := f.uc.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)
	assert.Empty(t, detail.Listing.Reviews)

	// Deleting the same review again still succeeds.
	assert.NoError(t, f.reviewUC.Delete(ctx, listing.ID, review.ID))
}

func TestReviewDeleteMissingListing(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	err := f.reviewUC.Delete(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
