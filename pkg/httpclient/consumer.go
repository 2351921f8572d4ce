/*
httpclient is the client side of the analysis channel: it opens the
streaming request, pushes the bytes through the transport decoder, and
folds every decoded event into the single active StreamSession. At
most one session is active per consumer; opening a new stream fully
retires the previous one first.
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	// Packages
	bizbrain "github.com/newjec/bizbrain"
	decision "github.com/newjec/bizbrain/pkg/decision"
	extract "github.com/newjec/bizbrain/pkg/extract"
	reveal "github.com/newjec/bizbrain/pkg/reveal"
	schema "github.com/newjec/bizbrain/pkg/schema"
	sse "github.com/newjec/bizbrain/pkg/sse"
	zerolog "github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Consumer struct {
	sync.Mutex
	endpoint   string
	client     *http.Client
	config     decision.Config
	stages     int
	dwell      time.Duration
	transition func(session *Session)
	logger     zerolog.Logger
	active     *Handle
}

// Handle is one open stream. Cancel aborts the underlying connection;
// it is idempotent and guarantees the transition callback never fires.
type Handle struct {
	session      *Session
	fsm          *decision.FSM
	ctx          context.Context
	cancel       context.CancelFunc
	cancelled    atomic.Bool
	done         chan struct{}
	transitioned chan struct{}
}

// Opt configures a Consumer
type Opt func(*Consumer)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewConsumer creates a consumer for the analysis endpoint URL
func NewConsumer(endpoint string, opts ...Opt) (*Consumer, error) {
	if endpoint == "" {
		return nil, bizbrain.ErrBadParameter.With("endpoint is required")
	}
	consumer := &Consumer{
		endpoint: endpoint,
		client:   &http.Client{},
		config:   decision.DefaultConfig(),
		stages:   len(extract.DeckTemplate()),
		dwell:    reveal.DefaultDwell,
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(consumer)
	}
	return consumer, nil
}

// WithHTTPClient overrides the transport
func WithHTTPClient(client *http.Client) Opt {
	return func(c *Consumer) {
		if client != nil {
			c.client = client
		}
	}
}

// WithDecisionConfig overrides the completion thresholds
func WithDecisionConfig(config decision.Config) Opt {
	return func(c *Consumer) {
		c.config = config
	}
}

// WithTransition sets the one-shot callback fired when a session
// completes. It receives the session whose completion fired it.
func WithTransition(fn func(session *Session)) Opt {
	return func(c *Consumer) {
		c.transition = fn
	}
}

// WithStages overrides the number of reveal stages
func WithStages(n int) Opt {
	return func(c *Consumer) {
		if n > 0 {
			c.stages = n
		}
	}
}

// WithRevealDwell overrides the minimum time a reveal stage stays
// in the filling state before it can complete
func WithRevealDwell(dwell time.Duration) Opt {
	return func(c *Consumer) {
		if dwell > 0 {
			c.dwell = dwell
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Opt {
	return func(c *Consumer) {
		c.logger = logger
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Open starts one analysis stream. A still-active previous handle is
// cancelled and fully retired before any shared state is touched, so
// two sessions never interleave writes.
func (c *Consumer) Open(ctx context.Context, companyName string) (*Handle, error) {
	if companyName == "" {
		return nil, bizbrain.ErrBadParameter.With("companyName is required")
	}

	c.Lock()
	previous := c.active
	c.Unlock()
	if previous != nil {
		previous.Cancel()
		<-previous.done
	}

	body, err := json.Marshal(schema.AnalyzeRequest{CompanyName: companyName})
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	request, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "text/event-stream")

	response, err := c.client.Do(request)
	if err != nil {
		cancel()
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		defer response.Body.Close()
		defer cancel()
		return nil, decodeHTTPError(response)
	}

	session := newSession(c.stages, c.dwell)
	handle := &Handle{
		session:      session,
		ctx:          reqCtx,
		cancel:       cancel,
		done:         make(chan struct{}),
		transitioned: make(chan struct{}),
	}
	handle.fsm = decision.New(c.config, func() {
		session.Lock()
		session.reveal.Finish()
		session.Unlock()
		if c.transition != nil {
			c.transition(session)
		}
		close(handle.transitioned)
	})

	c.Lock()
	c.active = handle
	c.Unlock()

	go c.consume(handle, response.Body)
	return handle, nil
}

// Session returns the session aggregate for this handle
func (h *Handle) Session() *Session {
	return h.session
}

// State returns the completion-decision state
func (h *Handle) State() decision.State {
	return h.fsm.State()
}

// ManualProceed is the user's "proceed anyway" action
func (h *Handle) ManualProceed() {
	h.fsm.ManualProceed()
}

// Done is closed when the stream has fully retired
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Transitioned is closed after the transition callback has run. The
// dwell timer can fire after Done is closed, so a caller waiting for
// the completed deck should check State first and only block here
// when the machine is still completing or has transitioned.
func (h *Handle) Transitioned() <-chan struct{} {
	return h.transitioned
}

// Cancel aborts the underlying connection. Idempotent; the completion
// callback is guaranteed never to fire afterwards.
func (h *Handle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) {
		h.fsm.Cancel()
		h.cancel()
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// consume reads frames off the wire until the stream ends, feeding
// each decoded event to the session and the decision machine.
func (c *Consumer) consume(h *Handle, body io.ReadCloser) {
	defer close(h.done)
	defer body.Close()
	defer h.cancel()

	decoder := sse.NewDecoder(body)
	for {
		frame, err := decoder.Next()
		if err != nil {
			break
		}
		var event schema.Event
		if err := frame.JSON(&event); err != nil {
			continue
		}
		h.session.apply(&event)
		h.fsm.OnEvent(&event)
	}
	if skipped := decoder.Skipped(); skipped > 0 {
		c.logger.Warn().Int("frames", skipped).Str("session", h.session.ID()).Msg("skipped malformed frames")
	}

	// tag why the transport closed: a terminal event keeps its stage,
	// a user cancel is not an error, a drop without a terminal event is
	switch {
	case h.session.isTerminal():
		h.session.finish("", "")
	case h.cancelled.Load():
		h.session.finish(schema.StageStopped, "")
	case h.ctx.Err() != nil:
		h.session.finish(schema.StageAborted, "")
	default:
		h.session.finish(schema.StageError, "接続が予期せず切断されました")
	}

	if h.cancelled.Load() || h.ctx.Err() != nil {
		h.fsm.Cancel()
	} else {
		h.fsm.OnSessionClosed(h.session.textLen())
	}
}

// decodeHTTPError turns a non-streaming error response into an error
func decodeHTTPError(response *http.Response) error {
	var body struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	detail := response.Status
	if err := json.NewDecoder(response.Body).Decode(&body); err == nil {
		if body.Reason != "" {
			detail = body.Reason
		} else if body.Error != "" {
			detail = body.Error
		}
	}
	if response.StatusCode >= 400 && response.StatusCode < 500 {
		return bizbrain.ErrBadParameter.With(detail)
	}
	return bizbrain.ErrInternalServerError.With(detail)
}
