/*
decision decides when a streaming analysis session is "complete enough"
to fire the one-shot transition into the slide-deck phase. Completion
evidence is any of: an explicit complete event, the stream closing with
substantial accumulated content, or an explicit user action after the
no-terminal-signal timeout. The transition callback fires exactly once
per session, and never after cancellation.
*/
package decision

import (
	"sync"
	"time"

	// Packages
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type State int

// Config holds the tunable completion thresholds
type Config struct {
	MinContent  int           `yaml:"min_content"`  // content length treated as substantial
	IdleTimeout time.Duration `yaml:"idle_timeout"` // no terminal signal before exposing manual proceed
	Dwell       time.Duration `yaml:"dwell"`        // pause before the automatic transition
}

type FSM struct {
	sync.Mutex
	config     Config
	state      State
	fired      bool
	transition func()
	idleTimer  *time.Timer
	dwellTimer *time.Timer
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Idle State = iota
	Streaming
	ManualReady
	Completing
	Transitioned
	Aborted
)

const (
	DefaultMinContent  = 500
	DefaultIdleTimeout = 30 * time.Second
	DefaultDwell       = 3 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// DefaultConfig returns the default completion thresholds
func DefaultConfig() Config {
	return Config{
		MinContent:  DefaultMinContent,
		IdleTimeout: DefaultIdleTimeout,
		Dwell:       DefaultDwell,
	}
}

// New creates a decision machine for one session. The transition
// callback is invoked at most once, never after Cancel.
func New(config Config, transition func()) *FSM {
	if config.MinContent <= 0 {
		config.MinContent = DefaultMinContent
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.Dwell <= 0 {
		config.Dwell = DefaultDwell
	}
	return &FSM{config: config, transition: transition}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// State returns the current state
func (f *FSM) State() State {
	f.Lock()
	defer f.Unlock()
	return f.state
}

// OnEvent feeds one observed event into the machine. The first event
// of a session moves Idle to Streaming and arms the manual-proceed
// timeout; a complete event is terminal evidence and begins the dwell.
func (f *FSM) OnEvent(event *schema.Event) {
	f.Lock()
	defer f.Unlock()

	if f.state == Idle {
		f.state = Streaming
		f.idleTimer = time.AfterFunc(f.config.IdleTimeout, f.onIdleTimeout)
	}
	if event.Type == schema.EventComplete {
		f.complete()
	}
}

// OnSessionClosed reports that the stream ended without an explicit
// complete event. Substantial accumulated content is treated as
// equally valid completion evidence; anything less leaves the machine
// where it is, so the user can retry.
func (f *FSM) OnSessionClosed(contentLen int) {
	f.Lock()
	defer f.Unlock()

	if contentLen >= f.config.MinContent {
		f.complete()
	}
}

// ManualProceed is the user's "proceed anyway" action. During the
// dwell it fires the transition immediately and cancels the pending
// automatic firing; mid-stream it transitions on whatever partial
// content has accumulated.
func (f *FSM) ManualProceed() {
	f.Lock()
	fn := f.fire()
	f.Unlock()
	if fn != nil {
		fn()
	}
}

// Cancel aborts the session. From any state other than Transitioned
// the machine moves to Aborted and the transition callback is
// guaranteed never to be invoked. Idempotent.
func (f *FSM) Cancel() {
	f.Lock()
	defer f.Unlock()

	if f.state == Transitioned || f.state == Aborted {
		return
	}
	f.state = Aborted
	f.fired = true // suppress any armed firing path
	f.stopTimers()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// complete moves Streaming or ManualReady to Completing and arms the
// dwell. Requires the lock.
func (f *FSM) complete() {
	if f.state != Streaming && f.state != ManualReady {
		return
	}
	f.state = Completing
	if f.idleTimer != nil {
		f.idleTimer.Stop()
	}
	f.dwellTimer = time.AfterFunc(f.config.Dwell, f.onDwellElapsed)
}

// fire marks the transition as fired exactly once and returns the
// callback to invoke, or nil when firing is not permitted. Requires
// the lock; the caller invokes the callback after releasing it, so
// the callback is free to call back into the machine.
func (f *FSM) fire() func() {
	switch f.state {
	case Idle, Transitioned, Aborted:
		return nil
	}
	if f.fired {
		return nil
	}
	f.fired = true
	f.state = Transitioned
	f.stopTimers()
	return f.transition
}

func (f *FSM) stopTimers() {
	if f.idleTimer != nil {
		f.idleTimer.Stop()
	}
	if f.dwellTimer != nil {
		f.dwellTimer.Stop()
	}
}

func (f *FSM) onIdleTimeout() {
	f.Lock()
	defer f.Unlock()

	// only exposes the manual action; never transitions by itself
	if f.state == Streaming {
		f.state = ManualReady
	}
}

func (f *FSM) onDwellElapsed() {
	f.Lock()
	var fn func()
	if f.state == Completing {
		fn = f.fire()
	}
	f.Unlock()
	if fn != nil {
		fn()
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case ManualReady:
		return "manual_ready"
	case Completing:
		return "completing"
	case Transitioned:
		return "transitioned"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}
