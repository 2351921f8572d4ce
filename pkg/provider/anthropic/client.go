/*
anthropic implements an API client for the Anthropic Messages API.
https://docs.anthropic.com/en/api/getting-started
*/
package anthropic

import (
	// Packages
	client "github.com/mutablelogic/go-client"
	bizbrain "github.com/newjec/bizbrain"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	model string
}

var _ bizbrain.Generator = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint     = "https://api.anthropic.com/v1"
	apiVersion   = "2023-06-01"
	defaultName  = "anthropic"
	defaultModel = "claude-sonnet-4-20250514"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Anthropic API client with the given API key.
// Defaults are prepended so callers can override the endpoint.
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append([]client.ClientOpt{
		client.OptEndpoint(endPoint),
		client.OptHeader("x-api-key", apiKey),
		client.OptHeader("anthropic-version", apiVersion),
	}, opts...)
	if c, err := client.New(opts...); err != nil {
		return nil, err
	} else {
		return &Client{c, defaultModel}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}
