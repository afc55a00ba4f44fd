package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore is an in-process Store for single-replica deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	subs    map[chan []byte]struct{}
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		subs:    make(map[chan []byte]struct{}),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// DeletePrefix drops every entry whose key lies under prefix, segment by
// segment, so "q:users" never reaches "q:users-archive".
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	p, ok := ParseKey(prefix)
	if !ok {
		return 0, fmt.Errorf("invalid key prefix %q", prefix)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for raw := range s.entries {
		if k, ok := ParseKey(raw); ok && k.HasPrefix(p) {
			delete(s.entries, raw)
			n++
		}
	}
	return n, nil
}

// Publish delivers payload to every subscriber. Slow subscribers miss
// notices rather than block the publisher.
func (s *MemoryStore) Publish(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ch := make(chan []byte, 16)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}
