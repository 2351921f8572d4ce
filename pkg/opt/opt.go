package opt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which can set options on a generator call
type Opt func(*Options) error

// StreamFn receives one incremental text delta, in arrival order
type StreamFn func(text string)

// Options is the set of applied options
type Options struct {
	url.Values
	stream StreamFn
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModelKey        = "model"
	TemperatureKey  = "temperature"
	MaxTokensKey    = "max_tokens"
	SystemPromptKey = "system"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (*Options, error) {
	opts := &Options{Values: make(url.Values)}
	for _, opt := range o {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetString returns the trimmed value for key, or empty string if not set
func (o *Options) GetString(key string) string {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o *Options) GetFloat64(key string) float64 {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o *Options) GetUint(key string) uint {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

// Has returns true if the key exists
func (o *Options) Has(key string) bool {
	_, ok := o.Values[key]
	return ok
}

// GetStream returns the streaming callback, or nil when not streaming
func (o *Options) GetStream() StreamFn {
	return o.stream
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithOpts combines multiple options into a single option
func WithOpts(options ...Opt) Opt {
	return func(o *Options) error {
		for _, opt := range options {
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithModel sets the model identifier for the call
func WithModel(model string) Opt {
	return func(o *Options) error {
		o.Values.Set(ModelKey, model)
		return nil
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(v float64) Opt {
	return func(o *Options) error {
		o.Values.Set(TemperatureKey, strconv.FormatFloat(v, 'f', -1, 64))
		return nil
	}
}

// WithMaxTokens caps the number of tokens generated for the completion
func WithMaxTokens(v uint) Opt {
	return func(o *Options) error {
		o.Values.Set(MaxTokensKey, fmt.Sprintf("%d", v))
		return nil
	}
}

// WithSystemPrompt sets the system prompt for the call
func WithSystemPrompt(prompt string) Opt {
	return func(o *Options) error {
		o.Values.Set(SystemPromptKey, prompt)
		return nil
	}
}

// WithStream sets the streaming callback. The provider forces the
// stream flag on the wire request when a callback is present.
func WithStream(fn StreamFn) Opt {
	return func(o *Options) error {
		o.stream = fn
		return nil
	}
}
