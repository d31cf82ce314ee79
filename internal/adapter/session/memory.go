package session

import (
	"context"
	"sync"
	"time"

	"github.com/delta-student/wanderlust/internal/domain"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance and for tests; use the Redis store when sessions must survive
// restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store whose sessions expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the session for token, treating expired entries as missing.
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[token]
	m.mu.RUnlock()

	if !ok || m.now().After(entry.expiresAt) {
		if ok {
			m.mu.Lock()
			delete(m.entries, token)
			m.mu.Unlock()
		}
		return nil, domain.ErrNotFound
	}

	s := entry.session
	return &s, nil
}

// Save writes the session and refreshes its TTL.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.Token] = memoryEntry{session: *s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Destroy removes the session.
func (m *MemoryStore) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}
