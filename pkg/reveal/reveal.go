/*
reveal tracks the progressive slide-reveal cursor. Stages complete
strictly in order: a stage cannot start filling until the previous one
is done, each stage holds for a minimum dwell before completing, and
the cursor only ever moves forward.
*/
package reveal

import (
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Status int

type State struct {
	stages  []Status
	index   int
	dwell   time.Duration
	entered time.Time
	now     func() time.Time
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Pending Status = iota
	Filling
	Done
)

const DefaultDwell = 800 * time.Millisecond

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a reveal cursor over n stages with the given minimum
// dwell per stage. The clock argument is for tests; nil uses time.Now.
func New(n int, dwell time.Duration, clock func() time.Time) *State {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	if clock == nil {
		clock = time.Now
	}
	return &State{
		stages: make([]Status, n),
		dwell:  dwell,
		now:    clock,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// StageIndex returns the cursor position: the index of the stage
// currently pending or filling, or the stage count when all are done.
func (s *State) StageIndex() int {
	return s.index
}

// Status returns the status of one stage
func (s *State) Status(i int) Status {
	if i < 0 || i >= len(s.stages) {
		return Pending
	}
	return s.stages[i]
}

// Complete returns true once every stage is done
func (s *State) Complete() bool {
	return s.index >= len(s.stages)
}

// Advance moves the current stage one step forward: pending stages
// start filling, and a filling stage completes once its minimum dwell
// has elapsed, moving the cursor to the next stage. Returns true when
// a step was taken.
func (s *State) Advance() bool {
	if s.Complete() {
		return false
	}
	switch s.stages[s.index] {
	case Pending:
		s.stages[s.index] = Filling
		s.entered = s.now()
		return true
	case Filling:
		if s.now().Sub(s.entered) < s.dwell {
			return false
		}
		s.stages[s.index] = Done
		s.index++
		return true
	}
	return false
}

// Finish marks every remaining stage done, in order, bypassing the
// dwell. Used when the terminal transition fires.
func (s *State) Finish() {
	for ; s.index < len(s.stages); s.index++ {
		s.stages[s.index] = Done
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (v Status) String() string {
	switch v {
	case Pending:
		return "pending"
	case Filling:
		return "filling"
	case Done:
		return "done"
	}
	return "unknown"
}
