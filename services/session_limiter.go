package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// One chat message every three seconds sustained, short bursts allowed.
	chatSessionRate  = rate.Limit(1.0 / 3.0)
	chatSessionBurst = 5

	sessionIdleTTL = 15 * time.Minute
)

// sessionLimiterStore keeps one token-bucket limiter per chat session,
// created lazily and evicted after sessionIdleTTL of inactivity.
type sessionLimiterStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	limit   rate.Limit
	burst   int
}

type sessionEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newSessionLimiterStore(limit rate.Limit, burst int) *sessionLimiterStore {
	return &sessionLimiterStore{
		entries: make(map[string]*sessionEntry),
		limit:   limit,
		burst:   burst,
	}
}

// Allow consumes one token for key. When rejected, the returned duration is
// how long until a token frees up.
func (s *sessionLimiterStore) Allow(key string, now time.Time) (bool, time.Duration) {
	s.mu.Lock()
	ent, ok := s.entries[key]
	if !ok {
		ent = &sessionEntry{lim: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = ent
	}
	ent.lastSeen = now
	s.mu.Unlock()

	r := ent.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (s *sessionLimiterStore) Sweep(now time.Time) int {
	cutoff := now.Add(-sessionIdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *sessionLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
