package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Writer emits frames on an http.ResponseWriter. Each Write is flushed
// immediately so the browser sees frames as they are produced.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewWriter sets the event-stream headers and returns a writer, or nil
// when the ResponseWriter does not support flushing.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Write emits one unnamed frame with a JSON payload.
func (s *Writer) Write(data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteEvent emits one named frame with a JSON payload.
func (s *Writer) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Comment emits a comment line, used as a keep-alive ping.
func (s *Writer) Comment(text string) {
	fmt.Fprintf(s.w, ": %s\n\n", text)
	s.flusher.Flush()
}
