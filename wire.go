package ttl

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// encodeEvent writes one NDJSON line for event, in the exact key order
// spec.md §6 requires: type, name, ts, then fields in emission order, then
// an optional histogram suffix.
func encodeEvent(w io.Writer, event Event) error {
	var b strings.Builder
	b.Grow(128)

	b.WriteByte('{')
	writeStringField(&b, "type", event.Type)
	b.WriteByte(',')
	writeStringField(&b, "name", event.Name)
	b.WriteByte(',')
	b.WriteString(`"ts":`)
	b.WriteString(strconv.FormatInt(int64(event.Timestamp), 10))

	for _, f := range event.Fields {
		b.WriteByte(',')
		writeValueField(&b, f.Key, f.Value)
	}

	if h := event.Histogram; h != nil {
		b.WriteByte(',')
		writeStringField(&b, "scale", h.Scale)
		b.WriteByte(',')
		b.WriteString(`"bins":`)
		b.WriteString(strconv.Itoa(h.Bins))
		b.WriteByte(',')
		b.WriteString(`"start":`)
		b.WriteString(strconv.FormatFloat(h.Start, 'g', -1, 64))
		b.WriteByte(',')
		if h.Scale == "linear" {
			b.WriteString(`"step":`)
		} else {
			b.WriteString(`"factor":`)
		}
		b.WriteString(strconv.FormatFloat(h.Factor, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(`"underflow":`)
		b.WriteString(strconv.FormatUint(h.Underflow, 10))
		b.WriteByte(',')
		b.WriteString(`"counts":[`)
		for i, c := range h.Counts {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(c, 10))
		}
		b.WriteString("],")
		b.WriteString(`"overflow":`)
		b.WriteString(strconv.FormatUint(h.Overflow, 10))
	}

	b.WriteByte('}')
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStringField(b *strings.Builder, key, value string) {
	b.WriteByte('"')
	b.WriteString(key)
	b.WriteString(`":`)
	b.WriteString(strconv.Quote(value))
}

func writeValueField(b *strings.Builder, key string, v Value) {
	b.WriteByte('"')
	b.WriteString(key)
	b.WriteString(`":`)
	if i, ok := v.Int(); ok {
		b.WriteString(strconv.FormatInt(i, 10))
		return
	}
	if f, ok := v.Float(); ok {
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		return
	}
	if s, ok := v.String(); ok {
		b.WriteString(strconv.Quote(s))
		return
	}
	panic(fmt.Sprintf("ttl: field %q has no recognized value kind", key))
}
