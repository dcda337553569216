package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSweepInterval = 5 * time.Minute

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore is an in-process Store with a periodic expiry sweep. Expired
// entries are also rejected lazily on Get, so the sweep only bounds memory
// growth.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its sweep goroutine.
// Close stops the sweeper.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep(defaultSweepInterval)
	return s
}

// Create stores the session under a fresh opaque token and returns it.
func (s *MemoryStore) Create(_ context.Context, sess Session) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	s.entries[token] = memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Get looks up the session for a token, dropping it when expired.
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, nil
	}

	sess := entry.session
	return &sess, nil
}

// Delete removes a token.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
