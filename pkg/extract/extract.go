/*
extract derives the section map from the accumulated stream text. The
map is always a pure function of the text; the extractor only memoizes
its scan position so each delta costs an incremental scan rather than
a full re-scan.
*/
package extract

import (
	"strings"

	// Packages
	marker "github.com/newjec/bizbrain/pkg/marker"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Extractor struct {
	rec      marker.Recognizer
	markers  []marker.Marker
	scanFrom int
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns an extractor using the given marker recognizer, or the
// markdown heading recognizer when nil.
func New(rec marker.Recognizer) *Extractor {
	if rec == nil {
		rec = marker.NewHeading()
	}
	return &Extractor{rec: rec}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Update scans newly arrived text for markers and returns the number
// recognized so far. The text must be the full accumulated buffer, and
// must only ever grow between calls.
func (e *Extractor) Update(text string) int {
	for {
		m, ok := e.rec.Next(text, e.scanFrom)
		if !ok {
			break
		}
		e.markers = append(e.markers, m)
		e.scanFrom = m.End
	}
	return len(e.markers)
}

// Count returns the number of markers recognized so far
func (e *Extractor) Count() int {
	return len(e.markers)
}

// Sections returns the section map for the given accumulated text:
// each recognized marker maps to the text between it and the next
// marker, with a trailing possible-marker line held back so values
// never shrink as the stream grows.
func (e *Extractor) Sections(text string) map[string]string {
	e.Update(text)

	sections := make(map[string]string, len(e.markers))
	for i, m := range e.markers {
		end := e.rec.Holdback(text)
		if i+1 < len(e.markers) {
			end = e.markers[i+1].Pos
		}
		if m.End > end {
			continue
		}
		sections[m.Name] = strings.TrimSpace(text[m.End:end])
	}
	return sections
}
