package http

import (
	"sync"
	"time"
)

// rateLimiter is a sliding-window counter keyed by client network
// origin. Each origin keeps the timestamps of its recent actions; a new
// action is allowed while the window holds fewer than limit entries.
// Counting is best effort, not a correctness invariant.
type rateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string][]time.Time
	lastPrune time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// allow records one action for the origin and reports whether it fits
// inside the sliding window. A zero or negative limit disables limiting.
func (r *rateLimiter) allow(origin string) bool {
	if r == nil || r.limit <= 0 || origin == "" {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.pruneStale(now)

	kept := r.hits[origin][:0]
	for _, ts := range r.hits[origin] {
		if now.Sub(ts) < r.window {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	r.hits[origin] = kept

	return len(kept) <= r.limit
}

// pruneStale drops origins whose whole history has aged out of the
// window, so idle origins do not accumulate forever. Runs at most once
// per window. Assumes r.mu is held.
func (r *rateLimiter) pruneStale(now time.Time) {
	if now.Sub(r.lastPrune) < r.window {
		return
	}
	r.lastPrune = now

	for origin, timestamps := range r.hits {
		if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) >= r.window {
			delete(r.hits, origin)
		}
	}
}
