package websearch

import (
	"context"
	"net/url"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	bizbrain "github.com/newjec/bizbrain"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// DuckDuckGo is the secondary provider, backed by the free Instant
// Answer API. No API key required; results are sparser than the
// primary's, which is acceptable for a fallback.
type DuckDuckGo struct {
	*client.Client
}

type duckduckgoResponse struct {
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

var _ bizbrain.Searcher = (*DuckDuckGo)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	duckduckgoEndPoint = "https://api.duckduckgo.com"
	duckduckgoLimit    = 5
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDuckDuckGo creates a client for the secondary search provider
func NewDuckDuckGo(opts ...client.ClientOpt) (*DuckDuckGo, error) {
	opts = append([]client.ClientOpt{client.OptEndpoint(duckduckgoEndPoint)}, opts...)
	client, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &DuckDuckGo{Client: client}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (*DuckDuckGo) Name() string {
	return "duckduckgo"
}

func (c *DuckDuckGo) Search(ctx context.Context, query string) (*schema.SearchResponse, error) {
	var response duckduckgoResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptQuery(searchValues(query))); err != nil {
		return nil, bizbrain.ErrSearchFailed.With(err.Error())
	}

	results := make([]schema.SearchResult, 0, duckduckgoLimit)
	for _, topic := range response.RelatedTopics {
		if len(results) >= duckduckgoLimit {
			break
		}
		if topic.Text == "" {
			continue
		}
		title := topic.Text
		if idx := strings.Index(title, " - "); idx > 0 {
			title = title[:idx]
		}
		results = append(results, schema.SearchResult{
			Title:   title,
			Url:     topic.FirstURL,
			Content: topic.Text,
		})
	}

	return &schema.SearchResponse{Query: query, Results: results}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func searchValues(query string) url.Values {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("no_html", "1")
	values.Set("skip_disambig", "1")
	return values
}
