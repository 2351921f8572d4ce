package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/newjec/bizbrain/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestEventTerminal(t *testing.T) {
	assert := assert.New(t)

	assert.False(schema.Event{Type: schema.EventStart}.IsTerminal())
	assert.False(schema.Event{Type: schema.EventToken}.IsTerminal())
	assert.True(schema.Event{Type: schema.EventComplete}.IsTerminal())
	assert.True(schema.Event{Type: schema.EventError}.IsTerminal())
}

func TestEventText(t *testing.T) {
	assert := assert.New(t)

	assert.True(schema.Event{Type: schema.EventToken}.IsText())
	assert.True(schema.Event{Type: schema.EventSection}.IsText())
	assert.False(schema.Event{Type: schema.EventProgress}.IsText())
	assert.False(schema.Event{Type: schema.EventComplete}.IsText())
}

func TestEventWire(t *testing.T) {
	assert := assert.New(t)

	// The browser contract: type, content and metadata keys
	ev := schema.Event{
		Type:    schema.EventSection,
		Content: "## 企業概要\n",
		Meta: schema.Meta{
			Progress: 38,
			Stage:    schema.StageStreaming,
			Section:  1,
		},
	}
	data, err := json.Marshal(ev)
	assert.NoError(err)

	var decoded map[string]any
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("analysis_section", decoded["type"])
	meta, ok := decoded["metadata"].(map[string]any)
	assert.True(ok)
	assert.Equal(float64(38), meta["progress"])
	assert.Equal(float64(1), meta["section"])
}
