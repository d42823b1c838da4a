package cache

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gabriel/livechart-api/internal/models"
)

type memoryEntry struct {
	payload  models.CachePayload
	storedAt time.Time
}

// MemoryStore is a process-local Store. The map is guarded by a RWMutex and
// no lock is held across a fetch.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     Clock
	logger  *slog.Logger
}

type MemoryOption func(*MemoryStore)

func WithClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLogger(logger *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}

	age := s.now().Sub(entry.storedAt)
	if expired(age, s.ttl) {
		s.mu.Lock()
		// a concurrent Set may have replaced the entry since the read
		if current, still := s.entries[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		s.logger.Debug("cache entry expired", "key", key, "age_ms", age.Milliseconds())
		return Entry{}, false, nil
	}

	return Entry{Payload: entry.payload, StoredAt: entry.storedAt, Age: age}, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload models.CachePayload) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{payload: payload, storedAt: s.now()}
	s.mu.Unlock()
	s.logger.Debug("cache set", "key", key, "count", payload.Count())
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	return ok, nil
}

func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	removed := len(s.entries)
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	s.logger.Info("cache cleared", "removed", removed)
	return removed, nil
}

func (s *MemoryStore) Info(_ context.Context) (Info, error) {
	now := s.now()

	s.mu.RLock()
	keys := make([]KeyInfo, 0, len(s.entries))
	for key, entry := range s.entries {
		keys = append(keys, keyInfo(key, entry.payload.Count(), entry.storedAt, now, s.ttl))
	}
	s.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })
	return Info{TotalKeys: len(keys), Keys: keys}, nil
}
