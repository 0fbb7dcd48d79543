package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Expired entries are dropped lazily.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	subMu  sync.Mutex
	subs   map[string]map[*memorySubscription]struct{}
	closed bool

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		subs:    make(map[string]map[*memorySubscription]struct{}),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if entry.expired(s.now()) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Publish delivers to current subscribers without blocking; a subscriber
// whose buffer is full misses the message.
func (s *MemoryStore) Publish(_ context.Context, channel, message string) error {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for sub := range s.subs[channel] {
		select {
		case sub.out <- message:
		default:
		}
	}
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, channel string) (Subscription, error) {
	sub := &memorySubscription{store: s, channel: channel, out: make(chan string, 64)}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		sub.closeLocked()
		return sub, nil
	}
	if s.subs[channel] == nil {
		s.subs[channel] = make(map[*memorySubscription]struct{})
	}
	s.subs[channel][sub] = struct{}{}
	return sub, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close ends every open subscription.
func (s *MemoryStore) Close() error {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for channel, subs := range s.subs {
		for sub := range subs {
			sub.closeLocked()
		}
		delete(s.subs, channel)
	}
	return nil
}

type memorySubscription struct {
	store   *MemoryStore
	channel string
	out     chan string
	done    bool
}

func (m *memorySubscription) Messages() <-chan string {
	return m.out
}

func (m *memorySubscription) Close() error {
	m.store.subMu.Lock()
	defer m.store.subMu.Unlock()

	if subs, ok := m.store.subs[m.channel]; ok {
		delete(subs, m)
		if len(subs) == 0 {
			delete(m.store.subs, m.channel)
		}
	}
	m.closeLocked()
	return nil
}

// closeLocked must be called with store.subMu held.
func (m *memorySubscription) closeLocked() {
	if !m.done {
		m.done = true
		close(m.out)
	}
}
