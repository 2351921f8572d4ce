package schema

///////////////////////////////////////////////////////////////////////////////
// TYPES

// SearchResult is one entry returned by a web-search provider.
type SearchResult struct {
	Title         string `json:"title"`
	Url           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// SearchResponse is the uniform shape every provider returns. Answer is a
// provider-generated summary, present only when the provider supports it.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer,omitempty"`
}

// SearchRequest is the inbound body for the search endpoint.
type SearchRequest struct {
	Query string `json:"query"`
}
