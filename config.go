package ttl

import "time"

// Config holds the tunable constants of a runtime. The zero value is not
// valid; use DefaultConfig and override individual fields.
type Config struct {
	// ShardCount is the number of shards each Counter's Sampler spreads
	// producers across. Rounded up to a power of two.
	ShardCount int

	// BufferCapacity is the per-shard sample capacity. Rounded up to a
	// power of two.
	BufferCapacity int

	// FlushInterval is how often the scheduler captures every registered
	// object.
	FlushInterval time.Duration

	// ReservoirSize bounds WeightedReservoir's working set.
	ReservoirSize int

	// HistogramBins, HistogramStart, and HistogramFactor shape the
	// optional log-scale histogram a Counter may attach.
	HistogramBins   int
	HistogramStart  float64
	HistogramFactor float64
}

// DefaultConfig returns the reference sizing.
func DefaultConfig() Config {
	return Config{
		ShardCount:      ShardCount,
		BufferCapacity:  BufferCapacity,
		FlushInterval:   100 * time.Millisecond,
		ReservoirSize:   ReservoirSize,
		HistogramBins:   DefaultHistogramBins,
		HistogramStart:  DefaultHistogramStart,
		HistogramFactor: DefaultHistogramFactor,
	}
}

// Validate repairs invalid or zero fields to their defaults rather than
// failing; it never returns a non-nil error, matching the teacher's own
// Config.Validate contract.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.ShardCount <= 0 {
		c.ShardCount = d.ShardCount
	}
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = d.BufferCapacity
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = d.FlushInterval
	}
	if c.ReservoirSize <= 0 {
		c.ReservoirSize = d.ReservoirSize
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = d.HistogramBins
	}
	if c.HistogramStart <= 0 {
		c.HistogramStart = d.HistogramStart
	}
	if c.HistogramFactor <= 1 {
		c.HistogramFactor = d.HistogramFactor
	}
	return nil
}
