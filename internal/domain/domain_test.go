package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		user, err := NewUser("alice", "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "a@example.com", user.Email)
		assert.False(t, user.ID.IsZero())
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		user, err := NewUser("  alice  ", " a@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "a@example.com", user.Email)
	})

	t.Run("empty username", func(t *testing.T) {
		_, err := NewUser("   ", "a@example.com")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("alice", "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestNewListing(t *testing.T) {
	owner := primitive.NewObjectID()
	valid := ListingInput{
		Title:       "Cozy Cabin",
		Description: "A cabin in the woods",
		Price:       100,
		Location:    "Lapland",
		Country:     "Finland",
	}

	t.Run("valid", func(t *testing.T) {
		listing, err := NewListing(owner, valid)
		require.NoError(t, err)
		assert.Equal(t, owner, listing.Owner)
		assert.NotNil(t, listing.Reviews)
		assert.Empty(t, listing.Reviews)
		assert.Equal(t, listing.CreatedAt, listing.UpdatedAt)
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		in := valid
		in.Price = 0
		_, err := NewListing(owner, in)
		assert.NoError(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		in := valid
		in.Price = -1
		_, err := NewListing(owner, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing title", func(t *testing.T) {
		in := valid
		in.Title = " "
		_, err := NewListing(owner, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewListing(primitive.NilObjectID, valid)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestListingUpdateValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("empty update is valid", func(t *testing.T) {
		assert.NoError(t, ListingUpdate{}.Validate())
	})

	t.Run("valid partial update", func(t *testing.T) {
		u := ListingUpdate{Title: strPtr("New Title"), Price: floatPtr(50)}
		assert.NoError(t, u.Validate())
	})

	t.Run("blank title rejected", func(t *testing.T) {
		u := ListingUpdate{Title: strPtr("  ")}
		assert.ErrorIs(t, u.Validate(), ErrInvalidInput)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		u := ListingUpdate{Price: floatPtr(-10)}
		assert.ErrorIs(t, u.Validate(), ErrInvalidInput)
	})
}

func TestNewReview(t *testing.T) {
	listing := primitive.NewObjectID()
	author := primitive.NewObjectID()

	t.Run("valid", func(t *testing.T) {
		review, err := NewReview(listing, author, 5, "Great stay")
		require.NoError(t, err)
		assert.Equal(t, listing, review.Listing)
		assert.Equal(t, author, review.Author)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6, 100} {
			_, err := NewReview(listing, author, rating, "ok")
			assert.ErrorIs(t, err, ErrInvalidInput, "rating %d", rating)
		}
		for rating := 1; rating <= 5; rating++ {
			_, err := NewReview(listing, author, rating, "ok")
			assert.NoError(t, err, "rating %d", rating)
		}
	})

	t.Run("empty comment", func(t *testing.T) {
		_, err := NewReview(listing, author, 3, "   ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
