package sse_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newjec/bizbrain/pkg/schema"
	"github.com/newjec/bizbrain/pkg/sse"
	"github.com/stretchr/testify/assert"
)

func TestWriterHeaders(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	s := sse.NewWriter(w)
	assert.NotNil(s)
	assert.Equal("text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal("no-cache", w.Header().Get("Cache-Control"))
}

func TestWriterRoundTrip(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	s := sse.NewWriter(w)

	assert.NoError(s.Write(schema.Event{Type: schema.EventStart, Meta: schema.Meta{Stage: schema.StageStart}}))
	assert.NoError(s.Write(schema.Event{Type: schema.EventToken, Content: "hello"}))

	frames := drain(t, sse.NewDecoder(strings.NewReader(w.Body.String())))
	assert.Len(frames, 2)

	var first schema.Event
	assert.NoError(frames[0].JSON(&first))
	assert.Equal(schema.EventStart, first.Type)

	var second schema.Event
	assert.NoError(frames[1].JSON(&second))
	assert.Equal("hello", second.Content)
}

func TestWriterComment(t *testing.T) {
	assert := assert.New(t)

	w := httptest.NewRecorder()
	s := sse.NewWriter(w)
	s.Comment("keep-alive")

	frames := drain(t, sse.NewDecoder(strings.NewReader(w.Body.String())))
	assert.Empty(frames)
}
