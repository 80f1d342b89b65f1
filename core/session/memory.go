package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[Data any] struct {
	data    Data
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// on access and by DeleteExpired.
type MemoryStore[Data any] struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry[Data]
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[Data any]() *MemoryStore[Data] {
	return &MemoryStore[Data]{
		entries: make(map[string]memoryEntry[Data]),
		now:     time.Now,
	}
}

func (s *MemoryStore[Data]) Get(_ context.Context, id string) (Data, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	var zero Data
	if !ok {
		return zero, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && cur.expires.Equal(e.expires) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return zero, false, nil
	}
	return e.data, true, nil
}

func (s *MemoryStore[Data]) Set(_ context.Context, id string, data Data, ttl time.Duration) error {
	e := memoryEntry[Data]{data: data}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore[Data]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore[Data]) GenerateID() string        { return GenerateID() }
func (s *MemoryStore[Data]) ValidateID(id string) bool { return ValidateID(id) }

// DeleteExpired removes expired entries and returns how many were removed.
func (s *MemoryStore[Data]) DeleteExpired(context.Context) (int64, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, e := range s.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore[Data]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
