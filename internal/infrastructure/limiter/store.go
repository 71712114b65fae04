package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// entry is one client's token bucket and the last time it was used
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store is a thread-safe registry of per-client token buckets. Buckets idle
// for longer than the TTL are evicted.
type Store struct {
	data    map[string]*entry
	mutex   sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewStore creates a store allowing perMinute requests per client with the
// given burst. Call Run to start periodic eviction.
func NewStore(perMinute, burst int, idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	return &Store{
		data:    make(map[string]*entry),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may make a request now
func (s *Store) Allow(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	e, exists := s.data[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// Run evicts idle buckets every interval until ctx is cancelled
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}

// EvictIdle removes buckets that have not been used within the TTL
func (s *Store) EvictIdle() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for key, e := range s.data {
		if now.Sub(e.lastSeen) > s.idleTTL {
			delete(s.data, key)
		}
	}
}

// Size returns the current number of tracked clients (for debugging/monitoring)
func (s *Store) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.data)
}
