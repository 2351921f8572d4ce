/*
sse implements text/event-stream framing: a Decoder which turns a byte
stream into discrete frames, and a Writer which emits frames over an
http.ResponseWriter.
*/
package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Frame is one decoded event-stream record.
type Frame struct {
	// Event name, empty for unnamed "data:" frames
	Event string

	// Raw payload, the concatenation of the frame's data lines
	Data []byte
}

// Decoder reads frames from a byte stream. The sequence is lazy, finite
// and non-restartable: Next returns io.EOF once the underlying stream
// ends. Bytes may arrive split at arbitrary boundaries; incomplete
// trailing lines are buffered until the next read. Frames whose payload
// is not valid JSON are skipped rather than aborting the stream.
type Decoder struct {
	r       *bufio.Reader
	skipped int
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDecoder returns a decoder over r. The decoder owns the read
// position of r; do not read from r elsewhere.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Next returns the next well-formed frame, or io.EOF at end of stream.
// A frame with a malformed JSON payload is counted and skipped.
func (d *Decoder) Next() (*Frame, error) {
	for {
		frame, err := d.next()
		if err != nil {
			return nil, err
		}
		if frame == nil {
			// Comment-only or empty block
			continue
		}
		if !json.Valid(frame.Data) {
			d.skipped++
			continue
		}
		return frame, nil
	}
}

// Skipped returns the number of malformed frames dropped so far.
func (d *Decoder) Skipped() int {
	return d.skipped
}

// JSON unmarshals the frame payload into v.
func (f *Frame) JSON(v any) error {
	return json.Unmarshal(f.Data, v)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// next reads one blank-line-terminated block and assembles its fields.
// Returns (nil, nil) for blocks carrying no data lines.
func (d *Decoder) next() (*Frame, error) {
	var event string
	var data [][]byte
	for {
		line, err := d.r.ReadString('\n')
		if err == io.EOF {
			// A truncated final block is not dispatched: its blank-line
			// terminator never arrived.
			return nil, io.EOF
		} else if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			// Blank line terminates the block
			if len(data) == 0 {
				return nil, nil
			}
			return &Frame{Event: event, Data: bytes.Join(data, []byte{'\n'})}, nil
		case strings.HasPrefix(line, ":"):
			// Comment, ignore
		case strings.HasPrefix(line, "data:"):
			data = append(data, []byte(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")))
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		default:
			// Unknown field, ignore per the framing convention
		}
	}
}
