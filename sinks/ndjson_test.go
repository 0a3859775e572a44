package sinks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/ttl"
)

func TestEncodeNDJSON_KeyOrder(t *testing.T) {
	event := ttl.Event{
		Type: "log",
		Name: "logger",
		Fields: []ttl.Field{
			{Key: "level", Value: ttl.StringValue("Info")},
			{Key: "message", Value: ttl.StringValue("hello")},
		},
	}

	line, err := encodeNDJSON(event)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"log","name":"logger","ts":0,"level":"Info","message":"hello"}`+"\n", string(line))
}
