/*
bizbrain is a web chat service which turns a company name into a
progressively-revealed multi-slide analysis. The server side relays a
token stream from a model provider to the browser over Server-Sent
Events; the client side re-assembles the stream into named sections and
drives a staged reveal.
*/
package bizbrain

import (
	"context"

	// Packages
	opt "github.com/newjec/bizbrain/pkg/opt"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Generator is the interface to an opaque token-streaming model provider.
// Generate blocks until the stream is exhausted and returns the full
// accumulated text. Set opt.WithStream to receive deltas in arrival order.
type Generator interface {
	// Return the provider name
	Name() string

	// Generate a completion for the prompt
	Generate(ctx context.Context, prompt string, opts ...opt.Opt) (string, error)
}

// Searcher is the interface for a single web-search provider. Implementations
// never modify the query; the caller owns templating, merging and truncation.
type Searcher interface {
	// Return the provider name
	Name() string

	// Search for the query and return a bounded ordered result set
	Search(ctx context.Context, query string) (*schema.SearchResponse, error)
}
