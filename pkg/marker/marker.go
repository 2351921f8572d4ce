/*
marker recognizes section boundaries in a growing text buffer. The
extractor is agnostic to the markup dialect: it only sees the
Recognizer interface, so the heading syntax can change without
touching the sectioning state machine.
*/
package marker

import (
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Marker is one recognized section boundary within a buffer.
type Marker struct {
	Name string // section name carried by the marker
	Pos  int    // offset of the marker within the buffer
	End  int    // offset just past the marker; section content starts here
}

// Recognizer finds section markers in an append-only text buffer.
type Recognizer interface {
	// Next returns the first complete marker at or after from.
	Next(buffer string, from int) (Marker, bool)

	// Holdback returns the offset before any trailing text which may
	// still grow into a marker. Content attribution stops there so a
	// section's text never shrinks once a marker completes.
	Holdback(buffer string) int
}

// Heading recognizes markdown heading lines of a fixed level.
type Heading struct {
	prefix string
}

var _ Recognizer = (*Heading)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewHeading returns a recognizer for level-2 markdown headings ("## ").
func NewHeading() *Heading {
	return &Heading{prefix: "## "}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Next returns the first newline-terminated heading line at or after
// from. A heading without its terminating newline is not yet complete,
// since its name may still be streaming in.
func (h *Heading) Next(buffer string, from int) (Marker, bool) {
	for pos := lineStart(buffer, from); pos < len(buffer); {
		eol := strings.IndexByte(buffer[pos:], '\n')
		if eol < 0 {
			break
		}
		line := buffer[pos : pos+eol]
		if strings.HasPrefix(line, h.prefix) {
			return Marker{
				Name: strings.TrimSpace(line[len(h.prefix):]),
				Pos:  pos,
				End:  pos + eol + 1,
			}, true
		}
		pos += eol + 1
	}
	return Marker{}, false
}

// Holdback returns the start of a trailing unterminated line that is,
// or could still become, a heading; otherwise the buffer length.
func (h *Heading) Holdback(buffer string) int {
	start := strings.LastIndexByte(buffer, '\n') + 1
	tail := buffer[start:]
	if tail == "" {
		return len(buffer)
	}
	if strings.HasPrefix(tail, h.prefix) || strings.HasPrefix(h.prefix, tail) {
		return start
	}
	return len(buffer)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// lineStart returns the first line boundary at or after from
func lineStart(buffer string, from int) int {
	if from <= 0 {
		return 0
	}
	if from >= len(buffer) {
		return len(buffer)
	}
	if buffer[from-1] == '\n' {
		return from
	}
	if next := strings.IndexByte(buffer[from:], '\n'); next >= 0 {
		return from + next + 1
	}
	return len(buffer)
}
