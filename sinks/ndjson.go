package sinks

import (
	"strconv"
	"strings"

	"github.com/neehar-mavuduru/ttl"
)

// encodeNDJSON renders event as one line of the wire format spec.md §6
// defines: type, name, ts, then fields in order, then an optional
// histogram suffix. Kept local to this package (rather than exported from
// ttl) since it is a pure function of exported ttl types.
func encodeNDJSON(event ttl.Event) ([]byte, error) {
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
		b.WriteByte('"')
		b.WriteString(f.Key)
		b.WriteString(`":`)
		if i, ok := f.Value.Int(); ok {
			b.WriteString(strconv.FormatInt(i, 10))
		} else if fl, ok := f.Value.Float(); ok {
			b.WriteString(strconv.FormatFloat(fl, 'g', -1, 64))
		} else if s, ok := f.Value.String(); ok {
			b.WriteString(strconv.Quote(s))
		}
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
	return []byte(b.String()), nil
}

func writeStringField(b *strings.Builder, key, value string) {
	b.WriteByte('"')
	b.WriteString(key)
	b.WriteString(`":`)
	b.WriteString(strconv.Quote(value))
}
