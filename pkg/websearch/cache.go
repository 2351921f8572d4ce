package websearch

import (
	"sync"
	"time"

	// Packages
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type responsets struct {
	ts       time.Time
	response schema.SearchResponse
}

// queryCache holds recent search responses keyed by query, so repeated
// analyses of the same company within the TTL skip the provider round-trip.
// Capacity is a hard bound: once full, the oldest entry is evicted.
type queryCache struct {
	sync.Mutex
	ttl     time.Duration
	cap     int
	entries map[string]responsets
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newQueryCache(ttl time.Duration, cap int) *queryCache {
	self := new(queryCache)

	// Set the TTL for each response
	if ttl > 0 {
		self.ttl = ttl
	}

	// Set cache capacity
	if cap <= 0 {
		cap = defaultCacheCap
	}
	self.cap = cap
	self.entries = make(map[string]responsets, cap)

	// Return the cache
	return self
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns a cached response for the query, or nil when absent or expired.
func (qc *queryCache) Get(query string) *schema.SearchResponse {
	if qc == nil || qc.ttl == 0 {
		return nil
	}
	qc.Lock()
	defer qc.Unlock()

	entry, ok := qc.entries[query]
	if !ok {
		return nil
	}
	if time.Since(entry.ts) >= qc.ttl {
		// Expired entry: prune
		delete(qc.entries, query)
		return nil
	}
	response := entry.response
	return &response
}

// Put stores a response for the query, evicting expired entries and
// then the oldest entry when the cache is at capacity.
func (qc *queryCache) Put(query string, response *schema.SearchResponse) {
	if qc == nil || qc.ttl == 0 || response == nil {
		return
	}
	qc.Lock()
	defer qc.Unlock()

	if _, ok := qc.entries[query]; !ok && len(qc.entries) >= qc.cap {
		qc.prune()
	}
	qc.entries[query] = responsets{ts: time.Now(), response: *response}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// prune drops expired entries, then the oldest entry if the cache is
// still full. Requires the lock.
func (qc *queryCache) prune() {
	for query, entry := range qc.entries {
		if time.Since(entry.ts) >= qc.ttl {
			delete(qc.entries, query)
		}
	}
	if len(qc.entries) < qc.cap {
		return
	}
	var oldest string
	var oldestTs time.Time
	for query, entry := range qc.entries {
		if oldest == "" || entry.ts.Before(oldestTs) {
			oldest, oldestTs = query, entry.ts
		}
	}
	delete(qc.entries, oldest)
}
