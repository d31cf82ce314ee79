// Package session provides server-side sessions keyed by an opaque token.
// The browser cookie carries only the token; user id, one-shot flash
// messages and the post-login redirect target live in the store.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Flash kinds, matching the two categories the pages render.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page only.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the per-token server-side state.
type Session struct {
	Token    string  `json:"token"`
	UserID   string  `json:"user_id,omitempty"` // hex ObjectID; empty when anonymous
	Flashes  []Flash `json:"flashes,omitempty"`
	ReturnTo string  `json:"return_to,omitempty"`
}

// New creates an anonymous session with a fresh random token.
func New() *Session {
	return &Session{Token: uuid.NewString()}
}

// AddFlash queues a one-shot message.
func (s *Session) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns the queued messages and clears them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Store persists sessions by token. Implementations enforce the TTL; an
// expired or unknown token behaves like a missing session.
type Store interface {
	// Get returns the session for token, or domain.ErrNotFound when the
	// token is unknown or expired.
	Get(ctx context.Context, token string) (*Session, error)
	// Save writes the session and refreshes its TTL.
	Save(ctx context.Context, s *Session) error
	// Destroy removes the session. Destroying an absent token is not an
	// error.
	Destroy(ctx context.Context, token string) error
}
