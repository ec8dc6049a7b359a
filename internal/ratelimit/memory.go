package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryStore keeps one window per key in process memory. Expired windows are
// dropped by Sweep, which Start runs periodically.
type MemoryStore struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore(limit int, windowSize time.Duration) *MemoryStore {
	if limit <= 0 {
		panic("ratelimit: limit must be positive")
	}
	if windowSize <= 0 {
		panic("ratelimit: window must be positive")
	}
	return &MemoryStore{
		limit:   limit,
		window:  windowSize,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow opens a window on the first request for key. Requests over the limit
// are denied without being counted.
func (s *MemoryStore) Allow(_ context.Context, key string) (Decision, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.start.Add(s.window)) {
		w = &window{start: now}
		s.windows[key] = w
	}

	d := Decision{Limit: s.limit, ResetAt: w.start.Add(s.window)}
	if w.count >= s.limit {
		return d, nil
	}
	w.count++
	d.Allowed = true
	d.Remaining = s.limit - w.count
	return d, nil
}

// Sweep removes expired windows and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.start.Add(s.window)) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Start sweeps expired windows every interval until ctx is cancelled.
func (s *MemoryStore) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("[RateLimit] Starting window sweeper", "interval", interval, "window", s.window, "limit", s.limit)

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				slog.Debug("[RateLimit] Swept expired windows", "removed", removed, "remaining", s.Len())
			}
		case <-ctx.Done():
			slog.Info("[RateLimit] Stopping window sweeper (context cancelled)")
			return nil
		}
	}
}
