/*
chat is the plain assistant channel: a length-capped, keyword-filtered
message is streamed through the model and re-emitted as {content, done}
frames with a terminal done frame.
*/
package chat

import (
	"context"
	"regexp"

	// Packages
	bizbrain "github.com/newjec/bizbrain"
	opt "github.com/newjec/bizbrain/pkg/opt"
	schema "github.com/newjec/bizbrain/pkg/schema"
	zerolog "github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EmitFn delivers one chat frame to the client channel
type EmitFn func(delta *schema.ChatDelta) error

type Chat struct {
	generator bizbrain.Generator
	maxLen    int
	denylist  []*regexp.Regexp
	logger    zerolog.Logger
}

// Opt configures a Chat
type Opt func(*Chat)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// DefaultMaxMessageLen caps one inbound message
const DefaultMaxMessageLen = 4000

// defaultDenylist blocks messages probing for credentials
var defaultDenylist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)APIキー`),
	regexp.MustCompile(`パスワード`),
	regexp.MustCompile(`秘密`),
	regexp.MustCompile(`トークン`),
}

const systemPrompt = `あなたはNEWJEC GPTとして、以下の分野で専門的な支援を提供するAIアシスタントです：

1. 英文翻訳・添削：正確な翻訳と文法・スタイルの改善提案
2. コーディング：プログラミング、デバッグ、コードレビュー、最適化提案
3. 資料作成アシスト：提案書、レポート、プレゼン資料の構成・改善

日本語で丁寧かつ専門的な回答を心がけ、実用的で具体的なアドバイスを提供してください。
セキュリティとプライバシーを重視し、個人情報や機密情報に関する質問には答えないでください。`

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates the chat channel over a generator
func New(generator bizbrain.Generator, opts ...Opt) (*Chat, error) {
	if generator == nil {
		return nil, bizbrain.ErrBadParameter.With("generator is required")
	}
	chat := &Chat{
		generator: generator,
		maxLen:    DefaultMaxMessageLen,
		denylist:  defaultDenylist,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(chat)
	}
	return chat, nil
}

// WithMaxMessageLen overrides the message length cap
func WithMaxMessageLen(n int) Opt {
	return func(c *Chat) {
		if n > 0 {
			c.maxLen = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Opt {
	return func(c *Chat) {
		c.logger = logger
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks one inbound message against the guardrails. The
// returned error message is user-facing.
func (c *Chat) Validate(message string) error {
	if message == "" {
		return bizbrain.ErrBadParameter.With("有効なメッセージを入力してください。")
	}
	if len([]rune(message)) > c.maxLen {
		return bizbrain.ErrBadParameter.Withf("メッセージが長すぎます。%d文字以内で入力してください。", c.maxLen)
	}
	for _, pattern := range c.denylist {
		if pattern.MatchString(message) {
			return bizbrain.ErrBadParameter.With("セキュリティ上の理由により、このメッセージは処理できません。")
		}
	}
	return nil
}

// Stream validates the message, streams the model response as
// {content, done:false} frames, and always ends the channel with a
// done frame; a mid-stream failure is reported in the terminal frame
// rather than silently truncating.
func (c *Chat) Stream(ctx context.Context, message string, emit EmitFn) error {
	if err := c.Validate(message); err != nil {
		return err
	}

	var emitErr error
	_, err := c.generator.Generate(ctx, message,
		opt.WithSystemPrompt(systemPrompt),
		opt.WithMaxTokens(1000),
		opt.WithTemperature(0.7),
		opt.WithStream(func(text string) {
			if emitErr == nil && text != "" {
				emitErr = emit(&schema.ChatDelta{Content: text})
			}
		}),
	)
	if emitErr != nil {
		return emitErr
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("chat stream failed")
		// best effort terminal frame
		_ = emit(&schema.ChatDelta{Done: true, Error: "ストリーミング中にエラーが発生しました。"})
		return err
	}

	return emit(&schema.ChatDelta{Done: true})
}
