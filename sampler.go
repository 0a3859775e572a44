package ttl

import (
	"sync"
	"sync/atomic"
)

// ShardCount and BufferCapacity are the reference sizing from spec §6:
// 64 shards of 512 samples each, both required to be powers of two.
const (
	ShardCount     = 64
	BufferCapacity = 512
)

// producerHandle pins a caller to one lazily-assigned shard. Go has no
// thread_local, so Sampler approximates the reference C++ implementation's
// `thread_local size_t shard_id_` (original_source/ttl/sampler.hpp) with a
// sync.Pool of handles: pool values are kept per-P, so a goroutine that
// calls Yield repeatedly without an intervening preemption point gets the
// same handle, and therefore the same shard, back on every call. The shard
// index itself is assigned once per handle (the first time the pool has to
// manufacture one), not on every Yield.
type producerHandle struct {
	shard uint64
}

// Sampler couples a sharded double-buffer to a reduction Strategy. Producers
// call Yield from any number of goroutines; the collector calls Capture
// from a single goroutine at a time.
type Sampler[T Numeric] struct {
	shards   []*shard[T]
	mask     uint64
	counter  atomic.Uint64
	handles  sync.Pool
	strategy Strategy[T]
	scratch  []T // collector-only scratch batch, reused across captures
}

// NewSampler builds a Sampler with the given shard count, per-shard buffer
// capacity, and reduction strategy. Both sizes are rounded up to the next
// power of two.
func NewSampler[T Numeric](shardCount, bufferCapacity int, strategy Strategy[T]) *Sampler[T] {
	shardCount = nextPowerOfTwo(shardCount)
	bufferCapacity = nextPowerOfTwo(bufferCapacity)

	shards := make([]*shard[T], shardCount)
	for i := range shards {
		shards[i] = newShard[T](bufferCapacity)
	}

	s := &Sampler[T]{
		shards:   shards,
		mask:     uint64(shardCount - 1),
		strategy: strategy,
	}
	s.handles.New = func() any {
		idx := s.counter.Add(1) & s.mask
		return &producerHandle{shard: idx}
	}
	return s
}

// Yield records one value. Wait-free: no lock, no allocation on the
// common path (the pool already holds a handle), no wait on the
// collector.
func (s *Sampler[T]) Yield(v T) {
	h := s.handles.Get().(*producerHandle)
	s.shards[h.shard].append(v)
	s.handles.Put(h)
}

// Capture flips every shard in turn, concatenates the drained windows into
// a scratch batch, and runs the strategy once over the full batch. Returns
// false if nothing was drained (steady-state quiescence, or an immediate
// re-capture with no intervening Yield).
func (s *Sampler[T]) Capture(nowUS int64) (Sample[T], bool) {
	batch := s.scratch[:0]
	var total uint64
	for _, sh := range s.shards {
		var n uint64
		batch, n = sh.drain(batch)
		total += n
	}
	s.scratch = batch

	if total == 0 {
		return Sample[T]{}, false
	}

	sample := s.strategy(batch, nowUS)
	sample.Count = total
	return sample, true
}
