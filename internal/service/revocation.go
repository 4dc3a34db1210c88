package service

import (
	"sync"
	"time"
)

// RevocationStore tracks tokens that must no longer be honored even while
// otherwise valid. Implementations must be safe for concurrent use; a
// shared external cache can stand in for the in-memory default when the
// service runs more than one instance.
type RevocationStore interface {
	// Revoke marks a token as dead. The expiry bounds how long the entry
	// has to be remembered; once the token itself expires the entry is
	// garbage.
	Revoke(token string, expiresAt time.Time)
	IsRevoked(token string) bool
	Close()
}

// memoryRevocationStore is a process-local TTL set. A background sweep
// drops entries whose tokens have expired on their own.
type memoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	done    chan struct{}
	now     func() time.Time
}

func NewMemoryRevocationStore(sweepInterval time.Duration) RevocationStore {
	s := &memoryRevocationStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	if sweepInterval > 0 {
		go s.sweepRoutine(sweepInterval)
	}
	return s
}

func (s *memoryRevocationStore) Revoke(token string, expiresAt time.Time) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.entries[token] = expiresAt
	s.mu.Unlock()
}

func (s *memoryRevocationStore) IsRevoked(token string) bool {
	s.mu.RLock()
	_, ok := s.entries[token]
	s.mu.RUnlock()
	return ok
}

func (s *memoryRevocationStore) Close() {
	close(s.done)
}

func (s *memoryRevocationStore) sweepRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *memoryRevocationStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for token, expiresAt := range s.entries {
		if !expiresAt.IsZero() && expiresAt.Before(now) {
			delete(s.entries, token)
		}
	}
	s.mu.Unlock()
}
