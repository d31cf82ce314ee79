package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delta-student/wanderlust/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := New()
	s.UserID = "abc"
	s.AddFlash(FlashSuccess, "hello")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.UserID)
	require.Len(t, got.Flashes, 1)
	assert.Equal(t, Flash{Kind: FlashSuccess, Message: "hello"}, got.Flashes[0])

	// The store hands out copies; mutating one must not leak into the next Get.
	got.UserID = "mutated"
	again, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "abc", again.UserID)
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	_, err := store.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	current := time.Now()
	store.now = func() time.Time { return current }

	s := New()
	require.NoError(t, store.Save(ctx, s))

	_, err := store.Get(ctx, s.Token)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreSaveRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	current := time.Now()
	store.now = func() time.Time { return current }

	s := New()
	require.NoError(t, store.Save(ctx, s))

	// Saving again 40 minutes in extends the deadline past the original one.
	current = current.Add(40 * time.Minute)
	require.NoError(t, store.Save(ctx, s))

	current = current.Add(50 * time.Minute)
	_, err := store.Get(ctx, s.Token)
	assert.NoError(t, err)
}

func TestMemoryStoreDestroy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := New()
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Destroy(ctx, s.Token))

	_, err := store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Destroying an absent token is not an error.
	assert.NoError(t, store.Destroy(ctx, "already-gone"))
}

func TestPopFlashes(t *testing.T) {
	s := New()
	s.AddFlash(FlashSuccess, "one")
	s.AddFlash(FlashError, "two")

	flashes := s.PopFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, "one", flashes[0].Message)
	assert.Equal(t, "two", flashes[1].Message)
	assert.Empty(t, s.PopFlashes())
}
