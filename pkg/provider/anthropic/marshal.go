package anthropic

///////////////////////////////////////////////////////////////////////////////
// TYPES

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Id         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      messagesUsage  `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesUsage struct {
	InputTokens  uint `json:"input_tokens"`
	OutputTokens uint `json:"output_tokens"`
}

// streamEvent is one SSE data payload from the streaming messages API
type streamEvent struct {
	Type    string            `json:"type"`
	Index   int               `json:"index"`
	Message *messagesResponse `json:"message,omitempty"`
	Delta   *streamDelta      `json:"delta,omitempty"`
	Error   *streamError      `json:"error,omitempty"`
	Usage   *messagesUsage    `json:"usage,omitempty"`
}

type streamDelta struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

type streamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	eventMessageStart      = "message_start"
	eventContentBlockStart = "content_block_start"
	eventContentBlockDelta = "content_block_delta"
	eventContentBlockStop  = "content_block_stop"
	eventMessageDelta      = "message_delta"
	eventMessageStop       = "message_stop"
	eventPing              = "ping"
	eventError             = "error"
)

const (
	deltaTypeText = "text_delta"
)

const (
	stopReasonMaxTokens = "max_tokens"
	stopReasonRefusal   = "refusal"
)
