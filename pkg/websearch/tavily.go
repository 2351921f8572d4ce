/*
websearch implements the web-search providers and the fan-out/merge
aggregator used to build the analysis prompt. Providers all satisfy
bizbrain.Searcher and are tried in order through a fallback chain; the
final provider in any chain returns a built-in placeholder set so the
pipeline never stalls with zero results.
*/
package websearch

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	bizbrain "github.com/newjec/bizbrain"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Tavily struct {
	*client.Client
	key     string
	domains []string
	lang    string
}

type tavilyRequest struct {
	ApiKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeAnswer  bool     `json:"include_answer"`
	IncludeRaw     bool     `json:"include_raw_content"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	Language       string   `json:"language,omitempty"`
}

type tavilyResponse struct {
	Results []schema.SearchResult `json:"results"`
	Answer  string                `json:"answer,omitempty"`
}

var _ bizbrain.Searcher = (*Tavily)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	tavilyEndPoint   = "https://api.tavily.com"
	tavilyDepth      = "advanced"
	tavilyMaxResults = 10
)

// Domains the analysis trusts for company information
var defaultDomains = []string{
	"reuters.com", "bloomberg.com", "nikkei.com", "yahoo.co.jp", "toyokeizai.net",
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTavily creates a client for the primary search provider
func NewTavily(apiKey string, opts ...client.ClientOpt) (*Tavily, error) {
	if apiKey == "" {
		return nil, bizbrain.ErrBadParameter.With("missing API key")
	}
	opts = append([]client.ClientOpt{client.OptEndpoint(tavilyEndPoint)}, opts...)
	client, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Tavily{
		Client:  client,
		key:     apiKey,
		domains: defaultDomains,
		lang:    "ja",
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (*Tavily) Name() string {
	return "tavily"
}

// WithDomains replaces the domain allowlist sent with every query
func (c *Tavily) WithDomains(domains ...string) *Tavily {
	c.domains = domains
	return c
}

func (c *Tavily) Search(ctx context.Context, query string) (*schema.SearchResponse, error) {
	payload, err := client.NewJSONRequest(tavilyRequest{
		ApiKey:         c.key,
		Query:          query,
		SearchDepth:    tavilyDepth,
		IncludeAnswer:  true,
		MaxResults:     tavilyMaxResults,
		IncludeDomains: c.domains,
		Language:       c.lang,
	})
	if err != nil {
		return nil, err
	}

	var response tavilyResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("search")); err != nil {
		return nil, bizbrain.ErrSearchFailed.With(err.Error())
	}

	return &schema.SearchResponse{
		Query:   query,
		Results: response.Results,
		Answer:  response.Answer,
	}, nil
}
