package sse_test

import (
	"io"
	"strings"
	"testing"

	"github.com/newjec/bizbrain/pkg/sse"
	"github.com/stretchr/testify/assert"
)

// chunkReader yields at most n bytes per Read call.
type chunkReader struct {
	s string
	n int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.s) == 0 {
		return 0, io.EOF
	}
	n := r.n
	if n > len(r.s) {
		n = len(r.s)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.s[:n])
	r.s = r.s[n:]
	return n, nil
}

func drain(t *testing.T, d *sse.Decoder) []sse.Frame {
	t.Helper()
	var frames []sse.Frame
	for {
		frame, err := d.Next()
		if err == io.EOF {
			return frames
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		frames = append(frames, *frame)
	}
}

const stream = "data: {\"type\":\"analysis_start\",\"content\":\"go\"}\n\n" +
	"data: {\"type\":\"analysis_stream\",\"content\":\"## Overview\\n\"}\n\n" +
	"data: {\"type\":\"analysis_complete\"}\n\n"

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	frames := drain(t, sse.NewDecoder(strings.NewReader(stream)))
	assert.Len(frames, 3)
	assert.JSONEq(`{"type":"analysis_start","content":"go"}`, string(frames[0].Data))
	assert.JSONEq(`{"type":"analysis_complete"}`, string(frames[2].Data))
}

// The decoder must yield the same frames regardless of how the byte
// stream is split across reads.
func TestDecodeChunkingInvariance(t *testing.T) {
	assert := assert.New(t)

	whole := drain(t, sse.NewDecoder(strings.NewReader(stream)))
	for _, n := range []int{1, 2, 3, 7, 16} {
		chunked := drain(t, sse.NewDecoder(&chunkReader{s: stream, n: n}))
		assert.Equal(whole, chunked, "chunk size %d", n)
	}
}

func TestDecodeMalformedFrameSkipped(t *testing.T) {
	assert := assert.New(t)

	corrupt := "data: {\"ok\":1}\n\n" +
		"data: {not json at all\n\n" +
		"data: {\"ok\":2}\n\n"
	d := sse.NewDecoder(strings.NewReader(corrupt))
	frames := drain(t, d)
	assert.Len(frames, 2)
	assert.Equal(1, d.Skipped())
}

func TestDecodeNamedEvent(t *testing.T) {
	assert := assert.New(t)

	input := "event: error\ndata: {\"error\":\"boom\"}\n\n"
	frames := drain(t, sse.NewDecoder(strings.NewReader(input)))
	assert.Len(frames, 1)
	assert.Equal("error", frames[0].Event)
}

func TestDecodeCommentsIgnored(t *testing.T) {
	assert := assert.New(t)

	input := ": keep-alive\n\ndata: {\"ok\":true}\n\n: ping\n\n"
	frames := drain(t, sse.NewDecoder(strings.NewReader(input)))
	assert.Len(frames, 1)
}

func TestDecodeMultiLineData(t *testing.T) {
	assert := assert.New(t)

	input := "data: [1,\ndata: 2]\n\n"
	frames := drain(t, sse.NewDecoder(strings.NewReader(input)))
	assert.Len(frames, 1)
	assert.JSONEq("[1,\n2]", string(frames[0].Data))
}

// A truncated final block without its blank-line terminator is never
// dispatched.
func TestDecodeTruncatedTail(t *testing.T) {
	assert := assert.New(t)

	input := "data: {\"ok\":1}\n\ndata: {\"trunc"
	frames := drain(t, sse.NewDecoder(strings.NewReader(input)))
	assert.Len(frames, 1)
}

func TestDecodeCRLF(t *testing.T) {
	assert := assert.New(t)

	input := "data: {\"ok\":1}\r\n\r\n"
	frames := drain(t, sse.NewDecoder(strings.NewReader(input)))
	assert.Len(frames, 1)
	assert.JSONEq(`{"ok":1}`, string(frames[0].Data))
}
