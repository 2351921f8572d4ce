package websearch

import (
	"testing"
	"time"

	// Packages
	schema "github.com/newjec/bizbrain/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func cacheResponse(query string) *schema.SearchResponse {
	return &schema.SearchResponse{Query: query}
}

func TestCacheEviction(t *testing.T) {
	assert := assert.New(t)

	cache := newQueryCache(time.Minute, 2)
	cache.Put("a", cacheResponse("a"))
	time.Sleep(time.Millisecond)
	cache.Put("b", cacheResponse("b"))
	assert.Len(cache.entries, 2)

	// at capacity, the oldest entry makes way
	cache.Put("c", cacheResponse("c"))
	assert.Len(cache.entries, 2)
	assert.Nil(cache.Get("a"))
	assert.NotNil(cache.Get("b"))
	assert.NotNil(cache.Get("c"))

	// re-storing an existing key does not evict
	cache.Put("b", cacheResponse("b"))
	assert.Len(cache.entries, 2)
	assert.NotNil(cache.Get("c"))
}

func TestCacheExpiry(t *testing.T) {
	assert := assert.New(t)

	cache := newQueryCache(10*time.Millisecond, 2)
	cache.Put("a", cacheResponse("a"))
	assert.NotNil(cache.Get("a"))

	time.Sleep(20 * time.Millisecond)
	assert.Nil(cache.Get("a"))
}

func TestCacheNilDisabled(t *testing.T) {
	assert := assert.New(t)

	var cache *queryCache
	cache.Put("a", cacheResponse("a"))
	assert.Nil(cache.Get("a"))
}
