// Package store holds the session backends.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
)

// sweepEvery is how many writes pass between opportunistic sweeps of expired entries.
const sweepEvery = 64

// InMemoryStore keeps session entries in process memory. It suits single
// instance deployments and tests; expired entries are dropped lazily when
// touched and by an occasional sweep on write, never by a background goroutine.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[session.Key]memoryEntry
	writes  int
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewMemory constructs an empty in-memory session store.
func NewMemory(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		entries: make(map[session.Key]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, key session.Key) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return session.Record{}, fmt.Errorf("get %s: %w", key, sentinel.ErrNotFound)
	}
	return e.record(), nil
}

func (s *InMemoryStore) Create(_ context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return session.Record{}, fmt.Errorf("create %s: %w", key, sentinel.ErrConflict)
	}
	return s.write(key, data, 1, ttl), nil
}

func (s *InMemoryStore) Replace(_ context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := int64(1)
	if e, ok := s.live(key); ok {
		version = e.version + 1
	}
	return s.write(key, data, version, ttl), nil
}

func (s *InMemoryStore) Update(_ context.Context, key session.Key, expected int64, data []byte, ttl time.Duration) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return session.Record{}, fmt.Errorf("update %s: %w", key, sentinel.ErrNotFound)
	}
	if e.version != expected {
		return session.Record{}, fmt.Errorf("update %s: stored version %d, expected %d: %w", key, e.version, expected, sentinel.ErrConflict)
	}
	return s.write(key, data, expected+1, ttl), nil
}

func (s *InMemoryStore) Take(_ context.Context, key session.Key) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return session.Record{}, fmt.Errorf("take %s: %w", key, sentinel.ErrNotFound)
	}
	delete(s.entries, key)
	return e.record(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, key session.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len reports the number of entries held, expired or not.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// live returns the entry if present and unexpired, deleting it if expired.
// Must be called while holding s.mu.
func (s *InMemoryStore) live(key session.Key) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// write stores a copy of data. Must be called while holding s.mu.
func (s *InMemoryStore) write(key session.Key, data []byte, version int64, ttl time.Duration) session.Record {
	now := s.now()
	e := memoryEntry{
		data:    append([]byte(nil), data...),
		version: version,
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.entries[key] = e

	s.writes++
	if s.writes >= sweepEvery {
		s.writes = 0
		s.sweep(now)
	}
	return e.record()
}

// sweep drops every expired entry. Must be called while holding s.mu.
func (s *InMemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (e memoryEntry) record() session.Record {
	return session.Record{Data: append([]byte(nil), e.data...), Version: e.version}
}
