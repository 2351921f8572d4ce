/*
relay orchestrates one streaming company analysis: fan out the search
batch, build the prompt, open the model stream, and re-emit every text
delta as an ordered event sequence with progress milestones and
section boundaries.
*/
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	// Packages
	bizbrain "github.com/newjec/bizbrain"
	extract "github.com/newjec/bizbrain/pkg/extract"
	opt "github.com/newjec/bizbrain/pkg/opt"
	schema "github.com/newjec/bizbrain/pkg/schema"
	zerolog "github.com/rs/zerolog"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EmitFn delivers one event to the client channel. An error aborts
// the analysis (the client is gone).
type EmitFn func(event *schema.Event) error

// Batcher runs a query batch through the provider fallback chain
type Batcher interface {
	Batch(ctx context.Context, subject string, queries []string) (*schema.SearchResponse, error)
}

type Relay struct {
	generator bizbrain.Generator
	searcher  Batcher
	queries   []string
	step      int
	genOpts   []opt.Opt
	logger    zerolog.Logger
}

// Opt configures a Relay
type Opt func(*Relay)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// progress milestones
	progressDispatch  = 10
	progressMerged    = 25
	progressModelCall = 30
	progressCeiling   = 95 // last 5% reserved for the terminal event
	progressComplete  = 100

	// DefaultSectionStep is the progress gained per detected section
	DefaultSectionStep = 8
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a relay over a generator and a search batcher
func New(generator bizbrain.Generator, searcher Batcher, opts ...Opt) (*Relay, error) {
	if generator == nil || searcher == nil {
		return nil, bizbrain.ErrBadParameter.With("generator and searcher are required")
	}
	relay := &Relay{
		generator: generator,
		searcher:  searcher,
		queries:   DefaultQueries,
		step:      DefaultSectionStep,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(relay)
	}
	return relay, nil
}

// WithQueries overrides the templated search queries
func WithQueries(queries []string) Opt {
	return func(r *Relay) {
		if len(queries) > 0 {
			r.queries = queries
		}
	}
}

// WithSectionStep overrides the progress step per detected section
func WithSectionStep(step int) Opt {
	return func(r *Relay) {
		if step > 0 {
			r.step = step
		}
	}
}

// WithGenerateOpts sets options passed to every model call
func WithGenerateOpts(opts ...opt.Opt) Opt {
	return func(r *Relay) {
		r.genOpts = opts
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Opt {
	return func(r *Relay) {
		r.logger = logger
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Analyze runs the full analysis protocol for one subject, emitting
// events in order until the terminal complete or error event. The
// subject must be validated by the caller before any event is due;
// Analyze re-checks and fails without emitting. Cancellation of ctx
// stops the model stream and emits no error event.
func (r *Relay) Analyze(ctx context.Context, companyName string, emit EmitFn) error {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return bizbrain.ErrBadParameter.With("companyName is required")
	}

	ctx, span := otel.Tracer("bizbrain/relay").Start(ctx, "relay.analyze")
	span.SetAttributes(attribute.String("company", companyName))
	defer span.End()

	if err := r.analyze(ctx, companyName, emit); err != nil {
		r.logger.Error().Err(err).Str("company", companyName).Msg("analysis failed")
		if ctx.Err() == nil {
			// best effort: the channel may already be gone
			_ = emit(&schema.Event{
				Type:    schema.EventError,
				Content: "❌ 分析中にエラーが発生しました。",
				Meta:    schema.Meta{Stage: schema.StageError, Error: sanitize(err)},
			})
		}
		return err
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *Relay) analyze(ctx context.Context, companyName string, emit EmitFn) error {
	// immediate feedback, before any search settles
	if err := emit(&schema.Event{
		Type:    schema.EventStart,
		Content: fmt.Sprintf("🔍 「%s」の企業分析を開始します...", companyName),
		Meta:    schema.Meta{Progress: 0, Stage: schema.StageStart},
	}); err != nil {
		return err
	}
	if err := emit(&schema.Event{
		Type:    schema.EventProgress,
		Content: "📊 包括的情報収集を実行中...",
		Meta:    schema.Meta{Progress: progressDispatch, Stage: schema.StageSearch},
	}); err != nil {
		return err
	}

	// fan out the query batch; the batcher falls back through its
	// provider chain, so an error here means every tier failed
	results, err := r.searcher.Batch(ctx, companyName, renderQueries(r.queries, companyName))
	if err != nil {
		return bizbrain.ErrSearchFailed.With(err.Error())
	}
	r.logger.Debug().Int("sources", len(results.Results)).Msg("search batch settled")

	if err := emit(&schema.Event{
		Type:    schema.EventProgress,
		Content: fmt.Sprintf("✅ Web検索完了 (%d件の情報源を取得)", len(results.Results)),
		Meta:    schema.Meta{Progress: progressMerged, Stage: schema.StageSearchComplete, Sources: len(results.Results)},
	}); err != nil {
		return err
	}

	prompt := buildPrompt(companyName, results.Results)
	if err := emit(&schema.Event{
		Type:    schema.EventProgress,
		Content: "🧠 深層分析を実行中...",
		Meta:    schema.Meta{Progress: progressModelCall, Stage: schema.StageModelAnalysis},
	}); err != nil {
		return err
	}

	full, err := r.stream(ctx, prompt, emit)
	if err != nil {
		return err
	}

	return emit(&schema.Event{
		Type:    schema.EventComplete,
		Content: "🎉 企業分析が完了しました！",
		Meta: schema.Meta{
			Progress: progressComplete,
			Stage:    schema.StageComplete,
			Analysis: &schema.AnalysisData{
				CompanyName:        companyName,
				FullContent:        full,
				SearchResultsCount: len(results.Results),
				DataSource:         fmt.Sprintf("Web検索結果（%d件の情報源）", len(results.Results)),
			},
		},
	})
}

// stream opens the model stream and re-emits each delta as a token
// event, in order. Whenever the accumulated text completes a new
// heading marker, a section event follows the token that finished it,
// advancing progress by the section step, clamped below the ceiling.
func (r *Relay) stream(ctx context.Context, prompt string, emit EmitFn) (string, error) {
	var (
		accumulated strings.Builder
		emitErr     error
		sections    int
	)
	extractor := extract.New(nil)

	// cancel the model stream as soon as the client channel fails
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deliver := func(event *schema.Event) {
		if emitErr == nil {
			if emitErr = emit(event); emitErr != nil {
				cancel()
			}
		}
	}

	genOpts := append([]opt.Opt{}, r.genOpts...)
	genOpts = append(genOpts, opt.WithStream(func(text string) {
		accumulated.WriteString(text)
		deliver(&schema.Event{
			Type:    schema.EventToken,
			Content: text,
			Meta:    schema.Meta{Progress: r.progress(sections), Stage: schema.StageStreaming},
		})
		for count := extractor.Update(accumulated.String()); sections < count; {
			sections++
			deliver(&schema.Event{
				Type: schema.EventSection,
				Meta: schema.Meta{Progress: r.progress(sections), Stage: schema.StageStreaming, Section: sections},
			})
		}
	}))

	full, err := r.generator.Generate(ctx, prompt, genOpts...)
	if emitErr != nil {
		return "", emitErr
	}
	if err != nil {
		return "", err
	}
	return full, nil
}

// progress maps a section count onto the streaming progress range
func (r *Relay) progress(sections int) int {
	if p := progressModelCall + sections*r.step; p < progressCeiling {
		return p
	}
	return progressCeiling
}

// sanitize translates an internal error into the user-readable detail
// carried by the error event. Raw provider text never crosses here.
func sanitize(err error) string {
	switch {
	case errors.Is(err, bizbrain.ErrBadParameter):
		return "リクエストが不正です"
	case errors.Is(err, bizbrain.ErrSearchFailed):
		return "情報収集に失敗しました"
	case errors.Is(err, bizbrain.ErrModelFailed):
		return "分析モデルの呼び出しに失敗しました"
	}
	return "不明なエラー"
}
