package websearch

import (
	"context"
	"time"

	// Packages
	bizbrain "github.com/newjec/bizbrain"
	schema "github.com/newjec/bizbrain/pkg/schema"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Aggregator fans a batch of queries out to an ordered list of providers.
// Each Search call tries the providers in sequence and stops at the first
// success; Batch runs all queries against one tier concurrently and only
// moves the whole batch to the next tier when every query in the current
// tier failed.
type Aggregator struct {
	providers []bizbrain.Searcher
	cap       int
	cache     *queryCache
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Bound on merged results embedded into the prompt
const DefaultResultCap = 15

// Default lifetime and capacity for cached query responses
const (
	DefaultCacheTTL = 5 * time.Minute
	defaultCacheCap = 64
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewAggregator creates an aggregator over providers, tried in order.
// At least one provider is required; append a Placeholder last when the
// pipeline must never see zero results.
func NewAggregator(providers ...bizbrain.Searcher) (*Aggregator, error) {
	if len(providers) == 0 {
		return nil, bizbrain.ErrBadParameter.With("no search providers")
	}
	return &Aggregator{
		providers: providers,
		cap:       DefaultResultCap,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithCap bounds the merged result count returned by Batch
func (a *Aggregator) WithCap(n int) *Aggregator {
	if n > 0 {
		a.cap = n
	}
	return a
}

// WithCacheTTL enables caching of query responses for the given
// lifetime. Without it every Search call is independent; zero or
// negative leaves the cache disabled.
func (a *Aggregator) WithCacheTTL(ttl time.Duration) *Aggregator {
	if ttl > 0 {
		a.cache = newQueryCache(ttl, defaultCacheCap)
	} else {
		a.cache = nil
	}
	return a
}

// Search runs a single query through the fallback chain, returning the
// first provider's successful response. Raw provider errors are never
// propagated while a further provider remains.
func (a *Aggregator) Search(ctx context.Context, query string) (*schema.SearchResponse, error) {
	if cached := a.cache.Get(query); cached != nil {
		return cached, nil
	}
	var lastErr error
	for _, provider := range a.providers {
		response, err := provider.Search(ctx, query)
		if err == nil {
			a.cache.Put(query, response)
			return response, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Batch runs all queries against each provider tier concurrently, waits
// for every query to settle, and merges the successes in query order,
// truncated to the configured cap. A single query's failure does not
// abort the batch; only when every query in a tier fails does the whole
// batch move to the next tier.
func (a *Aggregator) Batch(ctx context.Context, subject string, queries []string) (*schema.SearchResponse, error) {
	if len(queries) == 0 {
		return nil, bizbrain.ErrBadParameter.With("no queries")
	}

	var lastErr error
	for _, provider := range a.providers {
		responses, err := settle(ctx, provider, queries)
		if err != nil {
			lastErr = err
			continue
		}
		return a.merge(subject, responses), nil
	}
	return nil, lastErr
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// settle runs every query concurrently against one provider and waits
// for all of them. Returns an error only when no query succeeded.
func settle(ctx context.Context, provider bizbrain.Searcher, queries []string) ([]*schema.SearchResponse, error) {
	responses := make([]*schema.SearchResponse, len(queries))
	errs := make([]error, len(queries))

	var group errgroup.Group
	for i, query := range queries {
		group.Go(func() error {
			responses[i], errs[i] = provider.Search(ctx, query)
			// Individual failures are recorded, not returned, so the
			// remaining queries keep running.
			return nil
		})
	}
	_ = group.Wait()

	var failed int
	var lastErr error
	for i := range queries {
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
		}
	}
	if failed == len(queries) {
		return nil, bizbrain.ErrSearchFailed.Withf("%s: all %d queries failed: %v", provider.Name(), failed, lastErr)
	}
	return responses, nil
}

// merge flattens the settled responses in query order, truncates to the
// cap, and adopts the first non-empty answer.
func (a *Aggregator) merge(subject string, responses []*schema.SearchResponse) *schema.SearchResponse {
	merged := schema.SearchResponse{Query: subject}
	for _, response := range responses {
		if response == nil {
			continue
		}
		if merged.Answer == "" && response.Answer != "" {
			merged.Answer = response.Answer
		}
		merged.Results = append(merged.Results, response.Results...)
	}
	if len(merged.Results) > a.cap {
		merged.Results = merged.Results[:a.cap]
	}
	return &merged
}
