package websearch

import (
	"context"
	"fmt"

	// Packages
	bizbrain "github.com/newjec/bizbrain"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Placeholder is the tertiary provider: a fixed built-in result set so
// the analysis pipeline can proceed when every real provider is down. It
// never returns an error.
type Placeholder struct{}

var _ bizbrain.Searcher = (*Placeholder)(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (Placeholder) Name() string {
	return "placeholder"
}

func (Placeholder) Search(_ context.Context, query string) (*schema.SearchResponse, error) {
	return &schema.SearchResponse{
		Query: query,
		Results: []schema.SearchResult{
			{
				Title:   fmt.Sprintf("%s - 企業概要", query),
				Url:     fmt.Sprintf("https://example.com/%s", query),
				Content: fmt.Sprintf("%sは業界をリードする企業として、革新的な製品とサービスを提供しています。", query),
			},
			{
				Title:   fmt.Sprintf("%s - 財務情報", query),
				Url:     fmt.Sprintf("https://example.com/%s/finance", query),
				Content: fmt.Sprintf("%sの最新財務データによると、安定した成長を続けています。", query),
			},
		},
	}, nil
}
