package httpclient

import (
	"strings"
	"sync"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	extract "github.com/newjec/bizbrain/pkg/extract"
	reveal "github.com/newjec/bizbrain/pkg/reveal"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Session is the single shared aggregate for one analysis stream. It
// is owned exclusively by its consumer while active; all access goes
// through the lock so the reader goroutine and the UI never race.
type Session struct {
	sync.RWMutex
	id        string
	events    []*schema.Event
	text      strings.Builder
	stage     string
	progress  int
	active    bool
	lastError string
	terminal  bool
	extractor *extract.Extractor
	reveal    *reveal.State
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newSession(stages int, dwell time.Duration) *Session {
	return &Session{
		id:        uuid.NewString(),
		active:    true,
		extractor: extract.New(nil),
		reveal:    reveal.New(stages, dwell, nil),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Events returns a copy of the event log in arrival order
func (s *Session) Events() []*schema.Event {
	s.RLock()
	defer s.RUnlock()
	events := make([]*schema.Event, len(s.events))
	copy(events, s.events)
	return events
}

// AccumulatedText returns the concatenation of all text-bearing events
func (s *Session) AccumulatedText() string {
	s.RLock()
	defer s.RUnlock()
	return s.text.String()
}

// Sections returns the section map derived from the accumulated text
func (s *Session) Sections() map[string]string {
	s.Lock()
	defer s.Unlock()
	return s.extractor.Sections(s.text.String())
}

// Reveal returns the progressive-animation cursor
func (s *Session) Reveal() *reveal.State {
	return s.reveal
}

// Stage returns the last observed stage tag
func (s *Session) Stage() string {
	s.RLock()
	defer s.RUnlock()
	return s.stage
}

// Progress returns the clamped, non-decreasing progress percentage
func (s *Session) Progress() int {
	s.RLock()
	defer s.RUnlock()
	return s.progress
}

// IsActive reports whether the stream is still open
func (s *Session) IsActive() bool {
	s.RLock()
	defer s.RUnlock()
	return s.active
}

// LastError returns the first error observed on the session
func (s *Session) LastError() string {
	s.RLock()
	defer s.RUnlock()
	return s.lastError
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// apply folds one decoded event into the session state. Events after a
// failure are discarded; progress is clamped to [0,100] and never
// decreases.
func (s *Session) apply(event *schema.Event) {
	s.Lock()
	defer s.Unlock()

	if s.lastError != "" {
		return
	}

	s.events = append(s.events, event)
	if event.IsText() {
		s.text.WriteString(event.Content)
		// every text-bearing event ticks the reveal cursor, so stages
		// fill and complete while tokens are still arriving instead of
		// all snapping to done at the end of the stream
		s.reveal.Advance()
	}
	if p := event.Meta.Progress; p > s.progress {
		if p > 100 {
			p = 100
		}
		s.progress = p
	}
	if stage := event.Meta.Stage; stage != "" {
		s.stage = stage
	}

	switch event.Type {
	case schema.EventError:
		s.terminal = true
		s.active = false
		s.stage = schema.StageError
		if s.lastError = event.Meta.Error; s.lastError == "" {
			s.lastError = event.Content
		}
		if s.lastError == "" {
			s.lastError = "不明なエラー"
		}
	case schema.EventComplete:
		s.terminal = true
		s.active = false
	}
}

// isTerminal reports whether a terminal event has been observed
func (s *Session) isTerminal() bool {
	s.RLock()
	defer s.RUnlock()
	return s.terminal
}

// finish retires the session after the transport closed. The stage
// tags why; lastError is only set when no earlier error won.
func (s *Session) finish(stage, lastError string) {
	s.Lock()
	defer s.Unlock()

	s.active = false
	if stage != "" && !s.terminal {
		s.stage = stage
	}
	if lastError != "" && s.lastError == "" && !s.terminal {
		s.lastError = lastError
	}
}

// textLen returns the accumulated text length in bytes
func (s *Session) textLen() int {
	s.RLock()
	defer s.RUnlock()
	return s.text.Len()
}
