package cache

import (
	"sync"
	"time"

	"homeport/internal/metrics"
)

// DefaultTTL is used when a caller does not specify an explicit TTL.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-wide key/value cache with per-entry expiration.
// Entries are expired lazily on read; there is no eviction beyond that,
// which is fine for the tens of keys this service produces.
type Store struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	entries    map[string]entry

	// now is swappable so expiry can be tested without sleeping.
	now func() time.Time
}

// New creates a Store with the given default TTL. A non-positive TTL
// falls back to DefaultTTL.
func New(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Get returns the live value for key. A key that was never set and a key
// whose entry has expired are indistinguishable: both return (nil, false).
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, ok := s.entries[key]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return e.value, true
}

// Set stores value under key with the default TTL, overwriting any prior
// entry and its expiry.
func (s *Store) Set(key string, value any) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (s *Store) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key from the store, if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of stored entries, including any not yet
// lazily expired.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Fetch returns the cached value for key, computing and storing it with the
// default TTL on a miss. A compute error is returned to the caller and
// nothing is cached. Two concurrent misses may both compute; the computed
// value is deterministic for a given upstream state, so the lost update is
// harmless.
func Fetch[T any](s *Store, key string, compute func() (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	s.Set(key, v)
	return v, nil
}
