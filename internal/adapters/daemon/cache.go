// Package daemon implements the genie daemon: a result cache with per-cookie
// long-poll deduplication served over a Unix socket.
package daemon

import (
	"sync"

	"go.trai.ch/genie/internal/core/domain"
)

// Outcome classifies the answer the cache gives a poll or get.
type Outcome uint8

const (
	// NotAvailable means nothing has been published yet.
	NotAvailable Outcome = iota
	// NoChange means the cookie already saw the latest snapshot.
	NoChange
	// Available means a payload should be written to the client.
	Available
)

// String returns a human readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case NotAvailable:
		return "not-available"
	case NoChange:
		return "no-change"
	case Available:
		return "available"
	default:
		return "unknown"
	}
}

// CacheStats is a point-in-time summary of a cache.
type CacheStats struct {
	Cookies     int
	Iteration   uint64
	HasSnapshot bool
}

// Cache holds the latest snapshot published by a supervisor and, per cookie,
// the snapshot that cookie was last handed by a poll.
//
// Snapshots are shared by pointer and never mutated, so payloads returned from
// Poll and Get may be written to a socket after the lock is released.
type Cache[P any] struct {
	mu     sync.Mutex
	latest *domain.Snapshot[P]
	seen   map[domain.Cookie]*domain.Snapshot[P]
}

// NewCache creates an empty cache.
func NewCache[P any]() *Cache[P] {
	return &Cache[P]{
		seen: make(map[domain.Cookie]*domain.Snapshot[P]),
	}
}

// Update replaces the latest snapshot. No ordering check is made.
func (c *Cache[P]) Update(iteration uint64, payload P) {
	snap := &domain.Snapshot[P]{Iteration: iteration, Payload: payload}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = snap
}

// Poll returns the latest payload unless cookie has already been handed the
// same iteration. An Available result records the latest snapshot for cookie.
func (c *Cache[P]) Poll(cookie domain.Cookie) (P, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero P
	if c.latest == nil {
		return zero, NotAvailable
	}
	if last, ok := c.seen[cookie]; ok && last.Iteration == c.latest.Iteration {
		return zero, NoChange
	}
	c.seen[cookie] = c.latest
	return c.latest.Payload, Available
}

// Get returns the payload cookie was last handed by a poll, falling back to
// the latest snapshot for a cookie that never polled. It never records anything.
func (c *Cache[P]) Get(cookie domain.Cookie) (P, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.seen[cookie]; ok {
		return last.Payload, Available
	}
	if c.latest != nil {
		return c.latest.Payload, Available
	}
	var zero P
	return zero, NotAvailable
}

// Evict forgets cookies whose recorded iteration trails the latest by more
// than maxLag and returns how many were dropped. A forgotten cookie is treated
// as never seen: its next poll is Available and its next get returns latest.
func (c *Cache[P]) Evict(maxLag uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.latest == nil {
		return 0
	}
	evicted := 0
	for cookie, snap := range c.seen {
		if snap.Iteration < c.latest.Iteration && c.latest.Iteration-snap.Iteration > maxLag {
			delete(c.seen, cookie)
			evicted++
		}
	}
	return evicted
}

// Stats reports the number of tracked cookies and the latest iteration.
func (c *Cache[P]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Cookies: len(c.seen)}
	if c.latest != nil {
		stats.HasSnapshot = true
		stats.Iteration = c.latest.Iteration
	}
	return stats
}
