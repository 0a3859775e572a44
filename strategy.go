package ttl

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Sample is the internal summary a Strategy reduces a drained batch down
// to. Count is always overwritten by the Sampler with the batch's total
// drained size, regardless of what the strategy itself reports.
type Sample[T Numeric] struct {
	Value       T
	TimestampUS int64
	Count       uint64
}

// Strategy is a pure reduction from a read-only batch to one Sample. A
// Strategy must not retain values after it returns.
type Strategy[T Numeric] func(values []T, nowUS int64) Sample[T]

// ReservoirSize bounds WeightedReservoir's working set, per spec §4.2/§6.
const ReservoirSize = 256

// Uniform picks one element uniformly at random from the batch.
func Uniform[T Numeric](values []T, nowUS int64) Sample[T] {
	v := values[rand.IntN(len(values))]
	return Sample[T]{Value: v, TimestampUS: nowUS, Count: uint64(len(values))}
}

// WeightedReservoir fills a reservoir of up to ReservoirSize elements via
// Vitter's Algorithm R over the batch, then picks uniformly from it.
func WeightedReservoir[T Numeric](values []T, nowUS int64) Sample[T] {
	return NewWeightedReservoir[T](ReservoirSize)(values, nowUS)
}

// NewWeightedReservoir returns a WeightedReservoir strategy bounded to the
// given reservoir size, for callers (newCounter, via Config.ReservoirSize)
// that need a non-default size.
func NewWeightedReservoir[T Numeric](size int) Strategy[T] {
	return func(values []T, nowUS int64) Sample[T] {
		n := min(len(values), size)
		reservoir := make([]T, n)
		copy(reservoir, values[:n])

		for i := n; i < len(values); i++ {
			j := rand.IntN(i + 1)
			if j < n {
				reservoir[j] = values[i]
			}
		}

		v := reservoir[rand.IntN(len(reservoir))]
		return Sample[T]{Value: v, TimestampUS: nowUS, Count: uint64(len(values))}
	}
}

// P99 returns the element at floor(0.99*(n-1)) of the sorted batch.
func P99[T Numeric](values []T, nowUS int64) Sample[T] {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	idx := int(0.99 * float64(len(sorted)-1))
	return Sample[T]{Value: sorted[idx], TimestampUS: nowUS, Count: uint64(len(values))}
}

// Avg accumulates the batch as float64 and casts the mean back to T.
func Avg[T Numeric](values []T, nowUS int64) Sample[T] {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return Sample[T]{Value: T(sum / float64(len(values))), TimestampUS: nowUS, Count: uint64(len(values))}
}

// Min returns the smallest element of the batch.
func Min[T Numeric](values []T, nowUS int64) Sample[T] {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return Sample[T]{Value: m, TimestampUS: nowUS, Count: uint64(len(values))}
}

// Max returns the largest element of the batch.
func Max[T Numeric](values []T, nowUS int64) Sample[T] {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return Sample[T]{Value: m, TimestampUS: nowUS, Count: uint64(len(values))}
}

// HoeffdingSampleSize returns the reservoir size Hoeffding's inequality
// calls for at the given confidence and error bound:
//
//	n = ceil(-ln((1-confidence)/2) / (2*epsilon^2))
//
// Calibration (confidence, epsilon) -> n: (0.99,0.01)->26492, (0.95,0.05)->737-738,
// (0.90,0.10)->150, (0.90,0.20)->38.
func HoeffdingSampleSize(confidence, epsilon float64) int {
	alpha := 1.0 - confidence
	numerator := -math.Log(alpha / 2.0)
	denominator := 2.0 * epsilon * epsilon
	return int(math.Ceil(numerator / denominator))
}

// Default histogram shape, per spec §6.
const (
	DefaultHistogramBins   = 128
	DefaultHistogramStart  = 1e-6
	DefaultHistogramFactor = 1.2
)

// histogramBucket computes the log-scale bucketing described in spec §4.2:
// bin(v) = min(bins-1, floor(log(v/start)/log(factor))) for v > 0;
// v < start underflows, v >= start*factor^bins overflows.
func histogramBucket(v, start, factor float64, bins int) (bin int, underflow, overflow bool) {
	if v < start {
		return 0, true, false
	}
	b := int(math.Log(v/start) / math.Log(factor))
	if b >= bins {
		return 0, false, true
	}
	if b < 0 {
		b = 0
	}
	return b, false, false
}

// buildHistogram reduces values into a Histogram with the given shape,
// ignoring non-positive values (the log scale is undefined there).
func buildHistogram(values []float64, bins int, start, factor float64) *Histogram {
	h := &Histogram{
		Scale:  "log",
		Bins:   bins,
		Start:  start,
		Factor: factor,
		Counts: make([]uint64, bins),
	}
	for _, v := range values {
		if v <= 0 {
			continue
		}
		bin, underflow, overflow := histogramBucket(v, start, factor, bins)
		switch {
		case underflow:
			h.Underflow++
		case overflow:
			h.Overflow++
		default:
			h.Counts[bin]++
		}
	}
	return h
}
