package infrastructure

import (
	"context"
	"sync"
	"time"

	"registration-service/internal/domain/entities"
)

// MemoryStore is an in-process implementation of the pending-registration
// store and the token/profile cache. It backs tests and Redis-less
// development runs with the same TTL semantics the Redis service provides.
type MemoryStore struct {
	mu       sync.RWMutex
	pending  map[string]memoryEntry
	tokens   map[string]memoryEntry
	profiles map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending:  make(map[string]memoryEntry),
		tokens:   make(map[string]memoryEntry),
		profiles: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, pending *entities.PendingRegistration, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *pending
	s.pending[pending.Email] = memoryEntry{value: &copied, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, email string) (*entities.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.pending[email]
	if !exists {
		return nil, nil
	}
	if entry.expired(s.now()) {
		delete(s.pending, email)
		return nil, nil
	}

	copied := *entry.value.(*entities.PendingRegistration)
	return &copied, nil
}

func (s *MemoryStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, email)
	return nil
}

func (s *MemoryStore) SetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryEntry{value: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetToken(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tokens[token]
	if !exists || entry.expired(s.now()) {
		delete(s.tokens, token)
		return "", nil
	}
	return entry.value.(string), nil
}

func (s *MemoryStore) SetProfile(ctx context.Context, userID string, user *entities.User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	s.profiles[userID] = memoryEntry{value: &copied, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.profiles[userID]
	if !exists {
		return nil, nil
	}
	if entry.expired(s.now()) {
		delete(s.profiles, userID)
		return nil, nil
	}

	copied := *entry.value.(*entities.User)
	return &copied, nil
}

// CleanupExpired drops every expired entry. The caller schedules it; the
// store never spawns its own goroutine.
func (s *MemoryStore) CleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.pending {
		if entry.expired(now) {
			delete(s.pending, key)
		}
	}
	for key, entry := range s.tokens {
		if entry.expired(now) {
			delete(s.tokens, key)
		}
	}
	for key, entry := range s.profiles {
		if entry.expired(now) {
			delete(s.profiles, key)
		}
	}
}
