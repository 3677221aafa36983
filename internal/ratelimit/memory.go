package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/invoicegen/internal/clock"
)

type memoryEntry struct {
	windowStart time.Time
	window      time.Duration
	count       int
}

// MemoryStore is the single-process Store: a mutex-guarded map of window
// counters. Stale keys are reclaimed by Sweep.
type MemoryStore struct {
	clk clock.Clock

	mu    sync.Mutex
	items map[string]*memoryEntry
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clk:   clk,
		items: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := s.clk.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.items[key]
	if entry == nil || now.Sub(entry.windowStart) >= window {
		// An expired record is treated as absent, not carried forward.
		entry = &memoryEntry{windowStart: now, window: window}
		s.items[key] = entry
	}

	entry.count++
	return decide(entry.count, limit, entry.windowStart.Add(window)), nil
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.items {
		if !now.Before(entry.windowStart.Add(entry.window)) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

func decide(count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
