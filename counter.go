package ttl

import "time"

// Counter is a named numeric telemetry object. Two Counter handles
// constructed with the same name on the same runtime share one underlying
// Sampler (registry dedup); a freshly returned handle is immediately usable
// from any goroutine.
type Counter struct {
	name      string
	sampler   *Sampler[float64]
	histogram bool
	histBins  int
	histStart float64
	histFac   float64
}

func newCounter(name string, cfg Config, withHistogram bool) *Counter {
	return &Counter{
		name:      name,
		sampler:   NewSampler(cfg.ShardCount, cfg.BufferCapacity, NewWeightedReservoir[float64](cfg.ReservoirSize)),
		histogram: withHistogram,
		histBins:  cfg.HistogramBins,
		histStart: cfg.HistogramStart,
		histFac:   cfg.HistogramFactor,
	}
}

// Observe records one value. Wait-free; safe from any number of goroutines.
func (c *Counter) Observe(v float64) {
	c.sampler.Yield(v)
}

// Add is an alias for Observe matching the '+=' idiom described by spec.md
// for languages where operator overloading is idiomatic.
func (c *Counter) Add(v float64) {
	c.Observe(v)
}

// capture drains the Sampler and, if it yielded a Sample, emits exactly one
// "metric" Event to sink. nowUS comes from the runtime's single
// per-tick cached-clock read, not a fresh syscall per Counter.
func (c *Counter) capture(sink Sink, nowUS int64) {
	sample, ok := c.sampler.Capture(nowUS)
	if !ok {
		return
	}

	event := Event{
		Type:      "metric",
		Name:      c.name,
		Timestamp: time.Duration(nowUS) * time.Microsecond,
		Fields: []Field{
			{Key: "value", Value: FloatValue(sample.Value)},
			{Key: "count", Value: IntValue(int64(sample.Count))},
		},
	}

	if c.histogram {
		batch := c.sampler.scratch
		event.Histogram = buildHistogram(batch, c.histBins, c.histStart, c.histFac)
	}

	sink.Publish(event)
}
