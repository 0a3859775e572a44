package ttl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent_KeyOrderAndTypes(t *testing.T) {
	event := Event{
		Type:      "metric",
		Name:      "m",
		Timestamp: 1234,
		Fields: []Field{
			{Key: "value", Value: FloatValue(20.5)},
			{Key: "count", Value: IntValue(3)},
			{Key: "unit", Value: StringValue("ms")},
		},
	}

	var b strings.Builder
	require.NoError(t, encodeEvent(&b, event))

	line := b.String()
	assert.True(t, strings.HasSuffix(line, "}\n"))

	want := `{"type":"metric","name":"m","ts":1234,"value":20.5,"count":3,"unit":"ms"}` + "\n"
	assert.Equal(t, want, line)
}

func TestEncodeEvent_HistogramSuffix(t *testing.T) {
	event := Event{
		Type: "metric",
		Name: "h",
		Histogram: &Histogram{
			Scale:     "log",
			Bins:      2,
			Start:     1e-6,
			Factor:    1.2,
			Underflow: 1,
			Counts:    []uint64{4, 5},
			Overflow:  2,
		},
	}

	var b strings.Builder
	require.NoError(t, encodeEvent(&b, event))
	line := b.String()

	assert.Contains(t, line, `"scale":"log"`)
	assert.Contains(t, line, `"factor":1.2`)
	assert.Contains(t, line, `"counts":[4,5]`)
	assert.Contains(t, line, `"overflow":2`)
}
