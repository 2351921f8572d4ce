/*
schema defines the wire types shared between the relay, the HTTP
handlers and the stream consumer.
*/
package schema

import (
	"encoding/json"
)

///////////////////////////////////////////////////////////////////////////////
// EVENT TYPES

// One Event is pushed per SSE frame on the analysis channel. Events are
// ordered by arrival; no sequence number is transmitted.
const (
	EventStart    = "analysis_start"    // Channel opened, work begins
	EventProgress = "analysis_progress" // Milestone reached
	EventSection  = "analysis_section"  // Delta containing a heading marker
	EventToken    = "analysis_stream"   // Plain text delta
	EventComplete = "analysis_complete" // Stream exhausted normally
	EventError    = "analysis_error"    // Fatal failure, channel terminates
)

///////////////////////////////////////////////////////////////////////////////
// STAGE NAMES

const (
	StageStart          = "start"
	StageSearch         = "search"
	StageSearchComplete = "search_complete"
	StageModelAnalysis  = "model_analysis"
	StageStreaming      = "streaming_analysis"
	StageComplete       = "complete"
	StageError          = "error"
	StageAborted        = "aborted"
	StageStopped        = "stopped"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Event is one unit pushed over the analysis channel. Immutable once sent.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Meta    Meta   `json:"metadata"`
}

// Meta carries the free-form attributes of an Event.
type Meta struct {
	Progress int           `json:"progress"`
	Stage    string        `json:"stage,omitempty"`
	Section  int           `json:"section,omitempty"`
	Sources  int           `json:"sources,omitempty"`
	Error    string        `json:"error,omitempty"`
	Analysis *AnalysisData `json:"analysisData,omitempty"`
}

// AnalysisData is attached to the terminal complete Event.
type AnalysisData struct {
	CompanyName        string `json:"companyName"`
	FullContent        string `json:"fullContent"`
	SearchResultsCount int    `json:"searchResultsCount"`
	DataSource         string `json:"dataSource,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsTerminal reports whether no further Events follow this one.
func (e Event) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// IsText reports whether the Event content contributes to the
// accumulated analysis text.
func (e Event) IsText() bool {
	return e.Type == EventToken || e.Type == EventSection
}

func (e Event) String() string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
