package anthropic

import (
	"context"
	"io"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	bizbrain "github.com/newjec/bizbrain"
	opt "github.com/newjec/bizbrain/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultMaxTokens = 4096
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate sends a single user prompt and returns the accumulated
// response text. When a stream callback is set in the options, the
// request is made with the stream flag and each text delta is passed
// to the callback in arrival order before the full text is returned.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...opt.Opt) (string, error) {
	if prompt == "" {
		return "", bizbrain.ErrBadParameter.With("prompt is required")
	}

	// Apply options
	options, err := opt.Apply(opts...)
	if err != nil {
		return "", err
	}
	streamFn := options.GetStream()

	// Build request
	request := requestFromOpts(c.model, prompt, options)
	if streamFn != nil {
		request.Stream = true
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return "", err
	}

	// Streaming path
	if streamFn != nil {
		return c.generateStream(ctx, payload, streamFn)
	}

	// Non-streaming path
	var response messagesResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("messages")); err != nil {
		return "", bizbrain.ErrModelFailed.With(err.Error())
	}
	if response.StopReason == stopReasonRefusal {
		return "", bizbrain.ErrModelFailed.With("model refused to respond")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generateStream decodes the SSE response, forwarding each text delta
// to the callback and accumulating the full text.
func (c *Client) generateStream(ctx context.Context, payload client.Payload, streamFn opt.StreamFn) (string, error) {
	var (
		text       strings.Builder
		stopReason string
	)

	callback := func(event client.TextStreamEvent) error {
		var ev streamEvent
		if err := event.Json(&ev); err != nil {
			return err
		}

		switch ev.Type {
		case eventContentBlockDelta:
			if ev.Delta != nil && ev.Delta.Type == deltaTypeText {
				text.WriteString(ev.Delta.Text)
				streamFn(ev.Delta.Text)
			}
		case eventMessageDelta:
			if ev.Delta != nil {
				stopReason = ev.Delta.StopReason
			}
		case eventMessageStop:
			return io.EOF // Signal end of stream
		case eventError:
			if ev.Error != nil {
				return bizbrain.ErrModelFailed.Withf("stream error: %s", ev.Error.Message)
			}
			return bizbrain.ErrModelFailed.With("stream error")
		case eventMessageStart, eventContentBlockStart, eventContentBlockStop, eventPing:
			// NO-OP
		}

		return nil
	}

	var discard messagesResponse
	if err := c.DoWithContext(ctx, payload, &discard, client.OptPath("messages"), client.OptTextStreamCallback(callback)); err != nil {
		return "", bizbrain.ErrModelFailed.With(err.Error())
	}
	if stopReason == stopReasonRefusal {
		return "", bizbrain.ErrModelFailed.With("model refused to respond")
	}

	return text.String(), nil
}

// requestFromOpts builds a messagesRequest from a prompt and applied options
func requestFromOpts(model, prompt string, options *opt.Options) *messagesRequest {
	if v := options.GetString(opt.ModelKey); v != "" {
		model = v
	}

	maxTokens := defaultMaxTokens
	if options.Has(opt.MaxTokensKey) {
		maxTokens = int(options.GetUint(opt.MaxTokensKey))
	}

	var temperature *float64
	if options.Has(opt.TemperatureKey) {
		v := options.GetFloat64(opt.TemperatureKey)
		temperature = &v
	}

	return &messagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Messages:    []message{{Role: "user", Content: prompt}},
		System:      options.GetString(opt.SystemPromptKey),
		Temperature: temperature,
	}
}
