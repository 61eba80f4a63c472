package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps a fixed-window counter per key in process, with the
// same semantics as RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore starts a sweeper that drops expired windows every interval.
// A non-positive interval disables sweeping.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if interval > 0 {
		go s.sweepEvery(interval)
	}
	return s
}

func (s *MemoryStore) Allow(_ context.Context, key string, p Policy) (Result, error) {
	now := s.now()
	k := storeKey(key, p)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(p.Window)}
		s.entries[k] = e
	}
	e.count++

	res := Result{
		Allowed:   e.count <= p.Limit,
		Limit:     p.Limit,
		Remaining: max(p.Limit-e.count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = e.resetAt.Sub(now)
	}
	return res, nil
}

// sweep drops windows that have already ended.
func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, k)
		}
	}
}

func (s *MemoryStore) sweepEvery(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
