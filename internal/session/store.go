// Package session keeps the one-shot challenge that belongs to a browser
// session, and the cookie that identifies that session.
package session

import (
	"context"
	"sync"
	"time"
)

// ChallengeStore holds at most one pending challenge per session.
type ChallengeStore interface {
	// Put replaces the pending challenge of a session.
	Put(ctx context.Context, sessionID string, challenge uint32) error
	// Take returns the pending challenge and clears it in the same step.
	// ok is false when nothing was pending or it expired.
	Take(ctx context.Context, sessionID string) (challenge uint32, ok bool, err error)
}

type memoryEntry struct {
	challenge uint32
	expires   time.Time
}

// MemoryStore is a process-local ChallengeStore
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates a store whose challenges expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, challenge uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[sessionID] = memoryEntry{challenge: challenge, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, sessionID string) (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return 0, false, nil
	}
	delete(s.entries, sessionID)
	if !s.now().Before(entry.expires) {
		return 0, false, nil
	}
	return entry.challenge, true, nil
}

// Len is the number of stored challenges, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops expired entries. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.entries {
		if !now.Before(entry.expires) {
			delete(s.entries, id)
		}
	}
}
