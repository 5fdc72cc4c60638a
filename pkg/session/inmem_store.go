package session

import (
	"context"
	"sync"
	"time"
)

// InMemStore implements Store using an in-memory map
type InMemStore struct {
	sessions map[string]*sessionEntry
	ttl      time.Duration
	mu       sync.Mutex
}

type sessionEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// NewInMemStore creates a new in-memory session store
func NewInMemStore(ttl time.Duration) *InMemStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
	}
}

// Get reads a value from the session
func (s *InMemStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sessionID]
	if !exists {
		return "", ErrKeyNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return "", ErrKeyNotFound
	}

	value, exists := entry.values[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set writes a value and refreshes the session's idle expiry
func (s *InMemStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sessionID]
	if !exists || time.Now().UTC().After(entry.expiresAt) {
		entry = &sessionEntry{values: make(map[string]string)}
		s.sessions[sessionID] = entry
	}
	entry.values[key] = value
	entry.expiresAt = time.Now().UTC().Add(s.ttl)
	return nil
}

// Delete removes a value; missing keys are not an error
func (s *InMemStore) Delete(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sessionID]
	if !exists {
		return nil
	}
	delete(entry.values, key)
	return nil
}
